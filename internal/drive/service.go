package drive

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/andresuchdata/stockroom/internal/ingest"
)

const (
	MimeFolder      = "application/vnd.google-apps.folder"
	MimeSpreadsheet = "application/vnd.google-apps.spreadsheet"
)

type Service struct {
	srv *drive.Service
}

func NewService(ctx context.Context, credentialsJSON string) (*Service, error) {
	// Parse credentials from JSON
	config, err := google.JWTConfigFromJSON(
		[]byte(credentialsJSON),
		drive.DriveReadonlyScope,
	)
	if err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %w", err)
	}

	// Create the JWT client
	client := config.Client(ctx)

	return NewServiceWithOptions(ctx, option.WithHTTPClient(client))
}

// NewServiceWithOptions builds the service from raw client options, e.g. a
// custom endpoint.
func NewServiceWithOptions(ctx context.Context, opts ...option.ClientOption) (*Service, error) {
	srv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve Drive client: %w", err)
	}

	return &Service{srv: srv}, nil
}

type File struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	MimeType     string `json:"mimeType"`
	ModifiedTime string `json:"modifiedTime,omitempty"`
	Size         int64  `json:"size,string,omitempty"`
}

// Importable reports whether the file can be read as a stock sheet:
// a native Google Sheet, a .csv or a .xlsx.
func (f *File) Importable() bool {
	if f.MimeType == MimeSpreadsheet {
		return true
	}
	ext := strings.ToLower(filepath.Ext(f.Name))
	return ext == ".csv" || ext == ".xlsx"
}

// Format is the format of the bytes Open returns. Google Sheets are
// exported as CSV.
func (f *File) Format() ingest.Format {
	if f.MimeType == MimeSpreadsheet {
		return ingest.FormatCSV
	}
	return ingest.DetectFormat(f.Name, f.MimeType)
}

func (s *Service) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	var files []*File

	// If no folder ID is provided, use "root"
	if folderID == "" {
		folderID = "root"
	}

	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(folderID))).
		Fields("files(id, name, mimeType, modifiedTime, size)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve files: %w", err)
	}

	for _, f := range result.Files {
		files = append(files, fromDrive(f))
	}

	return files, nil
}

// ImportableFiles lists the stock sheets in the folder at path.
func (s *Service) ImportableFiles(ctx context.Context, path string) ([]*File, error) {
	folderID, err := s.FindFolderByPath(ctx, path)
	if err != nil {
		return nil, err
	}

	files, err := s.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	importable := make([]*File, 0, len(files))
	for _, f := range files {
		if f.Importable() {
			importable = append(importable, f)
		}
	}
	return importable, nil
}

func (s *Service) GetFile(ctx context.Context, fileID string) (*File, error) {
	f, err := s.srv.Files.Get(fileID).
		Fields("id, name, mimeType, modifiedTime, size").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to get file %s: %w", fileID, err)
	}
	return fromDrive(f), nil
}

// Open returns the file metadata and a reader over its content. Google
// Sheets are exported to CSV on the fly.
func (s *Service) Open(ctx context.Context, fileID string) (*File, io.ReadCloser, error) {
	file, err := s.GetFile(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}
	if !file.Importable() {
		return nil, nil, fmt.Errorf("file %s (%s) is not a csv, xlsx or google sheet", file.Name, file.MimeType)
	}

	if file.MimeType == MimeSpreadsheet {
		resp, err := s.srv.Files.Export(fileID, ingest.MimeCSV).Context(ctx).Download()
		if err != nil {
			return nil, nil, fmt.Errorf("unable to export sheet %s: %w", file.Name, err)
		}
		return file, resp.Body, nil
	}

	resp, err := s.srv.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, nil, fmt.Errorf("unable to download file %s: %w", file.Name, err)
	}
	return file, resp.Body, nil
}

func (s *Service) FindFolderByPath(ctx context.Context, path string) (string, error) {
	if path == "" {
		return "root", nil
	}

	folders := strings.Split(path, "/")
	currentID := "root"

	for _, folder := range folders {
		if folder == "" {
			continue
		}

		result, err := s.srv.Files.List().
			Q(fmt.Sprintf("'%s' in parents and name='%s' and mimeType='%s' and trashed=false",
				escapeQuery(currentID), escapeQuery(folder), MimeFolder)).
			Fields("files(id, name)").
			Context(ctx).
			Do()
		if err != nil {
			return "", fmt.Errorf("error finding folder %s: %w", folder, err)
		}

		if len(result.Files) == 0 {
			return "", fmt.Errorf("folder not found: %s", folder)
		}

		currentID = result.Files[0].Id
	}

	return currentID, nil
}

func fromDrive(f *drive.File) *File {
	return &File{
		ID:           f.Id,
		Name:         f.Name,
		MimeType:     f.MimeType,
		ModifiedTime: f.ModifiedTime,
		Size:         f.Size,
	}
}

func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
