package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockroom/internal/advice"
	"github.com/andresuchdata/stockroom/internal/cache"
	"github.com/andresuchdata/stockroom/internal/config"
	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/drive"
	"github.com/andresuchdata/stockroom/internal/ingest"
	"github.com/andresuchdata/stockroom/internal/inventory"
	"github.com/andresuchdata/stockroom/internal/storage"
)

type stubAdvisor struct {
	mu       sync.Mutex
	calls    int
	prompts  []string
	contexts []interface{}
	err      error
	delay    time.Duration
	inflight int
	maxSeen  int
}

func (s *stubAdvisor) GenerateAdvice(ctx context.Context, prompt string, contextData interface{}, systemOverride string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.contexts = append(s.contexts, contextData)
	s.inflight++
	if s.inflight > s.maxSeen {
		s.maxSeen = s.inflight
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.inflight--
	s.mu.Unlock()

	if s.err != nil {
		return "", s.err
	}
	return "Keep calm and **clear the decks**.", nil
}

type fakeDrive struct {
	files map[string]*drive.File
	data  map[string][]byte
}

func (f *fakeDrive) Open(ctx context.Context, fileID string) (*drive.File, io.ReadCloser, error) {
	file, ok := f.files[fileID]
	if !ok {
		return nil, nil, errors.New("file not found")
	}
	return file, io.NopCloser(bytes.NewReader(f.data[fileID])), nil
}

func (f *fakeDrive) ImportableFiles(ctx context.Context, path string) ([]*drive.File, error) {
	return []*drive.File{f.files["csv1"], f.files["xlsx1"]}, nil
}

func newFakeDrive(t *testing.T) *fakeDrive {
	t.Helper()

	var xlsx bytes.Buffer
	require.NoError(t, ingest.WriteXLSX(&xlsx, []domain.Product{{Name: "Tea Towel", Category: "Homeware", Cost: 2, RRP: 8, Stock: 30, SalesLastMonth: 6}}))

	return &fakeDrive{
		files: map[string]*drive.File{
			"csv1":  {ID: "csv1", Name: "Stock", MimeType: drive.MimeSpreadsheet},
			"xlsx1": {ID: "xlsx1", Name: "Homeware.xlsx", MimeType: ingest.MimeXLSX},
		},
		data: map[string][]byte{
			"csv1":  []byte("Product Name,Category\nBeeswax Wrap,Kitchen,Bee Good,2.4,7.5,12,20\n"),
			"xlsx1": xlsx.Bytes(),
		},
	}
}

func newServices(t *testing.T, advisor advice.Advisor, adviceCache cache.AdviceCache) (*inventory.Store, *DashboardService, *AdviceService) {
	t.Helper()
	store := inventory.NewStore(inventory.DemoProducts())
	dashboard := NewDashboardService(store, nil)
	return store, dashboard, NewAdviceService(advisor, adviceCache, dashboard, store, 2)
}

func TestDashboardService(t *testing.T) {
	store, dashboard, _ := newServices(t, &stubAdvisor{}, nil)

	overview := dashboard.Overview()
	assert.Equal(t, 5, overview.Stats.ProductCount)
	assert.InDelta(t, 96.75, overview.Budget.OpenToBuy, 1e-9)
	assert.Len(t, dashboard.Categories(), 3)
	assert.Len(t, dashboard.ProductPlans(), 5)
	assert.Len(t, dashboard.CategoryPlans(), 3)

	plan, err := dashboard.ProductPlan("1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOverstocked, plan.Status)

	_, err = dashboard.ProductPlan("missing")
	assert.ErrorIs(t, err, inventory.ErrNotFound)

	assert.Len(t, dashboard.Actions(""), 2)
	clearance := dashboard.Actions(domain.ActionClearance)
	require.Len(t, clearance, 1)
	assert.Equal(t, "slow-4", clearance[0].ID)

	_, err = dashboard.Action("slow-1")
	assert.ErrorIs(t, err, ErrActionNotFound)

	// edits are visible on the next call
	_, err = store.Replace("1", domain.Product{Name: "Ceramic Vase - Blue", Category: "Homeware", Cost: 8.5, RRP: 24, Stock: 45, SalesLastMonth: 1})
	require.NoError(t, err)
	item, err := dashboard.Action("slow-1")
	require.NoError(t, err)
	assert.Equal(t, domain.ActionClearance, item.Kind)
}

func TestCatalogImportAndExport(t *testing.T) {
	store := inventory.NewStore(inventory.DemoProducts())
	catalog := NewCatalogService(store)
	ctx := context.Background()

	csv := "Product Name,Category,Supplier,Cost Price,Selling Price,Current Stock,Sales (30d)\nMug,Homeware,Acme,3,10,20,5\nbad\n"
	result, err := catalog.Import(ctx, ingest.FormatCSV, strings.NewReader(csv), false, "upload")
	require.NoError(t, err)
	assert.Equal(t, domain.ImportResult{Source: "upload", Imported: 1, Skipped: 1}, result)
	assert.Len(t, catalog.List(), 6)

	result, err = catalog.Import(ctx, ingest.FormatCSV, strings.NewReader(csv), true, "upload")
	require.NoError(t, err)
	assert.True(t, result.Replaced)
	products := catalog.List()
	require.Len(t, products, 1)
	assert.Equal(t, "Mug", products[0].Name)

	var out bytes.Buffer
	require.NoError(t, catalog.Export(ingest.FormatCSV, &out))
	assert.Equal(t, "Product Name,Category,Supplier,Cost Price,Selling Price,Current Stock,Sales (30d)\n\"Mug\",\"Homeware\",\"Acme\",3,10,20,5", out.String())
}

func TestCatalogManualEntry(t *testing.T) {
	catalog := NewCatalogService(inventory.NewStore(nil))

	p, err := catalog.Add(domain.ProductInput{Name: "Soap", Cost: "1.20", RRP: "4"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCategory, p.Category)

	updated, err := catalog.Replace(p.ID, domain.ProductInput{Name: "Soap Bar", Category: "Beauty", Stock: 7})
	require.NoError(t, err)
	assert.Equal(t, p.ID, updated.ID)
	assert.Equal(t, 0.0, updated.Cost)

	require.NoError(t, catalog.Remove(p.ID))
	_, err = catalog.Get(p.ID)
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestCatalogArchive(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewStore(inventory.DemoProducts())

	_, err := NewCatalogService(store).Archive(ctx)
	assert.ErrorIs(t, err, ErrArchiveDisabled)

	archive, err := storage.New(ctx, config.ArchiveConfig{Driver: storage.DriverLocal, Dir: t.TempDir()})
	require.NoError(t, err)

	clock := func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.FixedZone("BST", 3600)) }
	catalog := NewCatalogService(store, WithArchive(archive, "exports"), WithClock(clock))

	result, err := catalog.Archive(ctx)
	require.NoError(t, err)
	assert.Equal(t, "exports/stock_room_inventory_20240501T090000Z.csv", result.Key)
	assert.Positive(t, result.Size)

	data, err := archive.DownloadObject(ctx, result.Key)
	require.NoError(t, err)
	batch, err := ingest.ReadCSV(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, batch.Products, 5)

	archives, err := catalog.Archives(ctx)
	require.NoError(t, err)
	require.Len(t, archives, 1)
	assert.Equal(t, result.Key, archives[0].Key)
}

func TestCatalogDriveImport(t *testing.T) {
	ctx := context.Background()
	store := inventory.NewStore(inventory.DemoProducts())

	_, err := NewCatalogService(store).ImportDrive(ctx, "csv1", false)
	assert.ErrorIs(t, err, ErrDriveDisabled)

	catalog := NewCatalogService(store, WithDrive(newFakeDrive(t)))

	result, err := catalog.ImportDrive(ctx, "csv1", false)
	require.NoError(t, err)
	assert.Equal(t, "drive:Stock", result.Source)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, catalog.List(), 6)

	result, err = catalog.ImportDriveFolder(ctx, "Shop/Stock", true)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	names := []string{}
	for _, p := range catalog.List() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Beeswax Wrap", "Tea Towel"}, names)

	files, err := catalog.DriveFiles(ctx, "")
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestAdviceSummaryIsCached(t *testing.T) {
	mr := miniredis.RunT(t)
	adviceCache, err := cache.NewAdviceCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)

	stub := &stubAdvisor{}
	_, _, svc := newServices(t, stub, adviceCache)
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, "Shop Health Check", first.Title)
	assert.Contains(t, stub.prompts[0], "Cash tied up in Stock: £972.00")
	assert.IsType(t, domain.ShopOverview{}, stub.contexts[0])

	second, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, 1, stub.calls)

	n, err := svc.ClearCache(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestAdviceFallback(t *testing.T) {
	stub := &stubAdvisor{err: advice.ErrMissingAPIKey}
	_, _, svc := newServices(t, stub, nil)

	result, err := svc.Chat(context.Background(), "How do I price candles?")
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	assert.Equal(t, advice.MessageBadKey, result.Text)
	assert.Equal(t, map[string]interface{}{}, stub.contexts[0])

	_, err = svc.Chat(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

func TestAdviceForActionsAndProducts(t *testing.T) {
	stub := &stubAdvisor{}
	_, _, svc := newServices(t, stub, nil)
	ctx := context.Background()

	result, err := svc.CoachAction(ctx, "slow-4")
	require.NoError(t, err)
	assert.Equal(t, string(advice.TopicCoaching), result.Topic)
	assert.Equal(t, "slow-4", result.ActionID)
	assert.Equal(t, "4", result.ProductID)

	_, err = svc.CoachAction(ctx, "margin-9")
	assert.ErrorIs(t, err, ErrActionNotFound)

	marketing, err := svc.Marketing(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "Marketing Magic", marketing.Title)
	assert.Contains(t, stub.prompts[len(stub.prompts)-1], "Product: Scented Candle - Fig")

	_, err = svc.Marketing(ctx, "nope")
	assert.ErrorIs(t, err, inventory.ErrNotFound)
}

func TestCoachAllIsBoundedAndOrdered(t *testing.T) {
	stub := &stubAdvisor{delay: 20 * time.Millisecond}
	store, _, svc := newServices(t, stub, nil)

	_, err := store.Append([]domain.Product{
		{ID: "20", Name: "Thin Margin", Cost: 10, RRP: 12, Stock: 5, SalesLastMonth: 20},
		{ID: "21", Name: "Dust Gatherer", Cost: 4, RRP: 12, Stock: 90, SalesLastMonth: 0},
	})
	require.NoError(t, err)

	results, err := svc.CoachAll(context.Background())
	require.NoError(t, err)

	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.ActionID)
		assert.False(t, r.Fallback)
	}
	assert.Equal(t, []string{"reorder-3", "slow-4", "reorder-20", "margin-20", "slow-21"}, ids)
	assert.Equal(t, string(advice.TopicSupplierEmail), results[3].Topic)
	assert.Equal(t, 5, stub.calls)
	assert.LessOrEqual(t, stub.maxSeen, 2)
}
