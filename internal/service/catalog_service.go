package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/drive"
	"github.com/andresuchdata/stockroom/internal/ingest"
	"github.com/andresuchdata/stockroom/internal/inventory"
	"github.com/andresuchdata/stockroom/internal/storage"
)

// DriveSource is the part of the Drive client used for imports.
type DriveSource interface {
	Open(ctx context.Context, fileID string) (*drive.File, io.ReadCloser, error)
	ImportableFiles(ctx context.Context, path string) ([]*drive.File, error)
}

// CatalogService manages the product collection: manual edits, file
// imports and exports, Drive imports and archived exports.
type CatalogService struct {
	store         *inventory.Store
	archive       storage.ObjectStorage
	archivePrefix string
	drive         DriveSource
	now           func() time.Time
}

type CatalogOption func(*CatalogService)

// WithArchive enables archiving exports under prefix.
func WithArchive(archive storage.ObjectStorage, prefix string) CatalogOption {
	return func(s *CatalogService) {
		s.archive = archive
		s.archivePrefix = prefix
	}
}

// WithDrive enables Google Drive imports.
func WithDrive(source DriveSource) CatalogOption {
	return func(s *CatalogService) {
		s.drive = source
	}
}

// WithClock overrides the clock used for archive keys.
func WithClock(now func() time.Time) CatalogOption {
	return func(s *CatalogService) {
		s.now = now
	}
}

func NewCatalogService(store *inventory.Store, opts ...CatalogOption) *CatalogService {
	s := &CatalogService{store: store, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CatalogService) List() []domain.Product {
	return s.store.Snapshot()
}

func (s *CatalogService) Get(id string) (domain.Product, error) {
	return s.store.Get(id)
}

func (s *CatalogService) Add(in domain.ProductInput) (domain.Product, error) {
	p, err := s.store.AddInput(in)
	if err != nil {
		return domain.Product{}, err
	}
	log.Info().Str("id", p.ID).Str("name", p.Name).Msg("catalog: product added")
	return p, nil
}

func (s *CatalogService) Replace(id string, in domain.ProductInput) (domain.Product, error) {
	return s.store.ReplaceInput(id, in)
}

func (s *CatalogService) Remove(id string) error {
	if err := s.store.Remove(id); err != nil {
		return err
	}
	log.Info().Str("id", id).Msg("catalog: product removed")
	return nil
}

// Import reads a CSV or XLSX file and appends its rows, or swaps the whole
// collection when replace is set.
func (s *CatalogService) Import(ctx context.Context, format ingest.Format, r io.Reader, replace bool, source string) (domain.ImportResult, error) {
	batch, err := ingest.Read(format, r)
	if err != nil {
		return domain.ImportResult{}, fmt.Errorf("failed to read %s import: %w", format, err)
	}
	return s.apply(batch, replace, source)
}

// ImportDrive imports a single Drive file.
func (s *CatalogService) ImportDrive(ctx context.Context, fileID string, replace bool) (domain.ImportResult, error) {
	if s.drive == nil {
		return domain.ImportResult{}, ErrDriveDisabled
	}

	batch, name, err := s.readDriveFile(ctx, fileID)
	if err != nil {
		return domain.ImportResult{}, err
	}
	return s.apply(batch, replace, "drive:"+name)
}

// ImportDriveFolder imports every stock sheet in a Drive folder as one
// batch, so a replacing import swaps in the union of all files.
func (s *CatalogService) ImportDriveFolder(ctx context.Context, folderPath string, replace bool) (domain.ImportResult, error) {
	if s.drive == nil {
		return domain.ImportResult{}, ErrDriveDisabled
	}

	files, err := s.drive.ImportableFiles(ctx, folderPath)
	if err != nil {
		return domain.ImportResult{}, err
	}

	merged := ingest.Batch{Products: make([]domain.Product, 0)}
	for _, f := range files {
		select {
		case <-ctx.Done():
			return domain.ImportResult{}, ctx.Err()
		default:
		}

		batch, _, err := s.readDriveFile(ctx, f.ID)
		if err != nil {
			return domain.ImportResult{}, fmt.Errorf("failed to import %s: %w", f.Name, err)
		}
		merged.Products = append(merged.Products, batch.Products...)
		merged.Skipped += batch.Skipped
	}

	return s.apply(merged, replace, "drive-folder:"+folderPath)
}

// DriveFiles lists the importable files in a Drive folder.
func (s *CatalogService) DriveFiles(ctx context.Context, folderPath string) ([]*drive.File, error) {
	if s.drive == nil {
		return nil, ErrDriveDisabled
	}
	return s.drive.ImportableFiles(ctx, folderPath)
}

func (s *CatalogService) readDriveFile(ctx context.Context, fileID string) (ingest.Batch, string, error) {
	file, body, err := s.drive.Open(ctx, fileID)
	if err != nil {
		return ingest.Batch{}, "", err
	}
	defer body.Close()

	// excelize needs the whole workbook, so buffer before parsing
	data, err := io.ReadAll(body)
	if err != nil {
		return ingest.Batch{}, "", fmt.Errorf("failed to download %s: %w", file.Name, err)
	}

	batch, err := ingest.Read(file.Format(), bytes.NewReader(data))
	if err != nil {
		return ingest.Batch{}, "", fmt.Errorf("failed to parse %s: %w", file.Name, err)
	}
	return batch, file.Name, nil
}

func (s *CatalogService) apply(batch ingest.Batch, replace bool, source string) (domain.ImportResult, error) {
	result := domain.ImportResult{
		Source:   source,
		Imported: len(batch.Products),
		Skipped:  batch.Skipped,
		Replaced: replace,
	}

	if replace {
		if err := s.store.ReplaceAll(batch.Products); err != nil {
			return domain.ImportResult{}, err
		}
	} else if len(batch.Products) > 0 {
		if _, err := s.store.Append(batch.Products); err != nil {
			return domain.ImportResult{}, err
		}
	}

	log.Info().
		Str("source", source).
		Int("imported", result.Imported).
		Int("skipped", result.Skipped).
		Bool("replaced", replace).
		Msg("catalog: import complete")

	return result, nil
}

// Export writes the current products in the given format.
func (s *CatalogService) Export(format ingest.Format, w io.Writer) error {
	return ingest.Write(format, w, s.store.Snapshot())
}

// Archive uploads a CSV export to object storage under a timestamped key.
func (s *CatalogService) Archive(ctx context.Context) (domain.ArchiveResult, error) {
	if s.archive == nil {
		return domain.ArchiveResult{}, ErrArchiveDisabled
	}

	var buf bytes.Buffer
	if err := ingest.WriteCSV(&buf, s.store.Snapshot()); err != nil {
		return domain.ArchiveResult{}, err
	}

	key := ArchiveKey(s.archivePrefix, s.now())
	if err := s.archive.UploadObject(ctx, key, buf.Bytes(), ingest.MimeCSV); err != nil {
		return domain.ArchiveResult{}, err
	}

	log.Info().Str("key", key).Int("bytes", buf.Len()).Msg("catalog: export archived")

	return domain.ArchiveResult{
		Bucket: s.archive.Location(),
		Key:    key,
		Size:   int64(buf.Len()),
	}, nil
}

// Archives lists previously archived exports.
func (s *CatalogService) Archives(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}
	return s.archive.ListObjects(ctx, s.archivePrefix)
}

// ArchiveKey builds <prefix>/stock_room_inventory_<UTC timestamp>.csv.
func ArchiveKey(prefix string, at time.Time) string {
	name := fmt.Sprintf("stock_room_inventory_%s.csv", at.UTC().Format("20060102T150405Z"))
	return path.Join(prefix, name)
}
