package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/qrmenu/internal/models"
)

var errNetwork = errors.New("connection refused")

// fakeRemote is an in-memory RemoteStore that records every write call and
// can be toggled unreachable.
type fakeRemote struct {
	mu         sync.Mutex
	business   *models.Business
	categories []models.Category
	products   []models.Product
	tags       []string
	down       bool
	calls      []string
}

func (f *fakeRemote) record(op string) {
	f.calls = append(f.calls, op)
}

func (f *fakeRemote) writeCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeRemote) FetchBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, transient("fetch business", errNetwork)
	}
	if f.business == nil || f.business.Slug != slug {
		return nil, ErrNotFound
	}
	b := *f.business
	return &b, nil
}

func (f *fakeRemote) FetchCategories(ctx context.Context, businessID uuid.UUID) ([]models.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, transient("fetch categories", errNetwork)
	}
	return append([]models.Category(nil), f.categories...), nil
}

func (f *fakeRemote) FetchProducts(ctx context.Context, businessID uuid.UUID) ([]models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, transient("fetch products", errNetwork)
	}
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeRemote) FetchTags(ctx context.Context, businessID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, transient("fetch tags", errNetwork)
	}
	return append([]string(nil), f.tags...), nil
}

func (f *fakeRemote) write(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(op)
	if f.down {
		return transient(op, errNetwork)
	}
	return nil
}

func (f *fakeRemote) UpdateBusiness(ctx context.Context, business *models.Business) error {
	return f.write("update business")
}

func (f *fakeRemote) InsertCategory(ctx context.Context, category *models.Category) error {
	return f.write("insert category")
}

func (f *fakeRemote) UpdateCategory(ctx context.Context, category *models.Category) error {
	return f.write("update category")
}

func (f *fakeRemote) DeleteCategory(ctx context.Context, businessID, categoryID uuid.UUID) error {
	return f.write("delete category")
}

func (f *fakeRemote) InsertProduct(ctx context.Context, product *models.Product) error {
	return f.write("insert product")
}

func (f *fakeRemote) UpdateProduct(ctx context.Context, product *models.Product) error {
	return f.write("update product")
}

func (f *fakeRemote) DeleteProduct(ctx context.Context, businessID, productID uuid.UUID) error {
	return f.write("delete product")
}

func (f *fakeRemote) InsertTag(ctx context.Context, businessID uuid.UUID, name string) error {
	return f.write("insert tag")
}

func (f *fakeRemote) DeleteTag(ctx context.Context, businessID uuid.UUID, name string) error {
	return f.write("delete tag")
}

func newCategory(businessID uuid.UUID, name string) models.Category {
	c := models.Category{BusinessID: businessID, Name: name}
	c.ID = uuid.New()
	return c
}

func newProduct(businessID, categoryID uuid.UUID, name string, price float64) models.Product {
	p := models.Product{BusinessID: businessID, CategoryID: categoryID, Name: name, Price: price}
	p.ID = uuid.New()
	return p
}

// seedRemote builds the mikail-cafe tenant: two categories, five products.
func seedRemote() *fakeRemote {
	business := &models.Business{Slug: "mikail-cafe", Name: "Mikail Cafe"}
	business.ID = uuid.New()

	drinks := newCategory(business.ID, "Drinks")
	mains := newCategory(business.ID, "Mains")

	return &fakeRemote{
		business:   business,
		categories: []models.Category{drinks, mains},
		products: []models.Product{
			newProduct(business.ID, drinks.ID, "Espresso", 3),
			newProduct(business.ID, drinks.ID, "Ayran", 2),
			newProduct(business.ID, mains.ID, "Lahmacun", 9),
			newProduct(business.ID, mains.ID, "Iskender", 14),
			newProduct(business.ID, mains.ID, "Pide", 11),
		},
		tags: []string{"spicy", "vegan"},
	}
}

func newTestStore(t *testing.T, remote RemoteStore, cache LocalCache) *DataStore {
	t.Helper()
	return New("mikail-cafe", remote, cache, nil)
}

func TestInitializeFromRemote(t *testing.T) {
	remote := seedRemote()
	cache := NewMemoryCache()
	ds := newTestStore(t, remote, cache)

	require.NoError(t, ds.Initialize(context.Background()))

	snap := ds.Snapshot()
	assert.False(t, ds.Loading())
	require.NotNil(t, snap.Business)
	assert.Equal(t, "mikail-cafe", snap.Business.Slug)
	assert.Len(t, snap.Categories, 2)
	assert.Len(t, snap.Products, 5)

	// Remote snapshot must be written through to the cache.
	cached, err := cache.Read(context.Background(), "mikail-cafe")
	require.NoError(t, err)
	assert.Equal(t, "Mikail Cafe", cached.Business.Name)
}

func TestInitializeRecountsProductCounts(t *testing.T) {
	remote := seedRemote()
	// Stored counts drift; the snapshot never trusts them.
	remote.categories[0].ProductCount = 99
	ds := newTestStore(t, remote, nil)

	require.NoError(t, ds.Initialize(context.Background()))

	snap := ds.Snapshot()
	assert.Equal(t, 2, snap.Categories[0].ProductCount)
	assert.Equal(t, 3, snap.Categories[1].ProductCount)
}

func TestInitializeFallsBackToCache(t *testing.T) {
	remote := seedRemote()
	cache := NewMemoryCache()

	warm := newTestStore(t, remote, cache)
	require.NoError(t, warm.Initialize(context.Background()))

	remote.mu.Lock()
	remote.down = true
	remote.mu.Unlock()

	ds := newTestStore(t, remote, cache)
	require.NoError(t, ds.Initialize(context.Background()))

	snap := ds.Snapshot()
	require.NotNil(t, snap.Business)
	assert.Equal(t, "Mikail Cafe", snap.Business.Name)
	assert.Len(t, snap.Products, 5)
	assert.False(t, ds.Loading())
}

func TestInitializeRemoteGoneDropsCache(t *testing.T) {
	remote := seedRemote()
	cache := NewMemoryCache()

	warm := newTestStore(t, remote, cache)
	require.NoError(t, warm.Initialize(context.Background()))

	// The tenant disappears from the remote store while the cache still
	// holds a copy. Not-found is authoritative: the route dies.
	remote.mu.Lock()
	remote.business = nil
	remote.mu.Unlock()

	ds := newTestStore(t, remote, cache)
	err := ds.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cache.Read(context.Background(), "mikail-cafe")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInitializeUnknownTenant(t *testing.T) {
	ds := New("no-such-cafe", seedRemote(), NewMemoryCache(), nil)

	err := ds.Initialize(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, ds.Loading())
}

func TestInitializeRemoteDownNoCache(t *testing.T) {
	remote := seedRemote()
	remote.down = true
	ds := newTestStore(t, remote, nil)

	err := ds.Initialize(context.Background())
	require.Error(t, err)
	var transientErr *TransientError
	assert.ErrorAs(t, err, &transientErr)
}

func TestUpdateBusinessOptimistic(t *testing.T) {
	remote := seedRemote()
	ds := newTestStore(t, remote, NewMemoryCache())
	require.NoError(t, ds.Initialize(context.Background()))

	name := "X"
	require.NoError(t, ds.UpdateBusiness(context.Background(), BusinessPatch{Name: &name}))

	// The snapshot reflects the edit immediately, independent of the
	// remote write resolving.
	assert.Equal(t, "X", ds.Snapshot().Business.Name)

	ds.Wait()
	assert.Contains(t, remote.writeCalls(), "update business")
}

func TestUpdateBusinessRemoteFailureKeepsState(t *testing.T) {
	remote := seedRemote()
	ds := newTestStore(t, remote, NewMemoryCache())
	require.NoError(t, ds.Initialize(context.Background()))

	remote.mu.Lock()
	remote.down = true
	remote.mu.Unlock()

	name := "Renamed Cafe"
	require.NoError(t, ds.UpdateBusiness(context.Background(), BusinessPatch{Name: &name}))
	ds.Wait()

	assert.Equal(t, "Renamed Cafe", ds.Snapshot().Business.Name)
}

func TestUpdateBusinessRejectsEmptyName(t *testing.T) {
	ds := newTestStore(t, seedRemote(), nil)
	require.NoError(t, ds.Initialize(context.Background()))

	name := "  "
	err := ds.UpdateBusiness(context.Background(), BusinessPatch{Name: &name})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "name", validation.Field)
}

func TestUpdateBusinessShallowReplacesNestedObjects(t *testing.T) {
	ds := newTestStore(t, seedRemote(), nil)
	require.NoError(t, ds.Initialize(context.Background()))

	first := map[string]string{"instagram": "foo"}
	require.NoError(t, ds.UpdateBusiness(context.Background(), BusinessPatch{SocialMedia: &first}))

	second := map[string]string{"facebook": "bar"}
	require.NoError(t, ds.UpdateBusiness(context.Background(), BusinessPatch{SocialMedia: &second}))

	// Top-level keys replace whole sub-objects: instagram is gone.
	social := ds.Snapshot().Business.SocialMedia
	assert.Equal(t, map[string]string{"facebook": "bar"}, social)
}

func TestAddCategory(t *testing.T) {
	ds := newTestStore(t, seedRemote(), NewMemoryCache())
	require.NoError(t, ds.Initialize(context.Background()))

	category, err := ds.AddCategory(context.Background(), CategoryInput{Name: "Tatlılar", Icon: "Cake"})
	require.NoError(t, err)
	assert.Equal(t, "Tatlılar", category.Name)
	assert.NotEqual(t, uuid.Nil, category.ID)

	snap := ds.Snapshot()
	assert.Len(t, snap.Categories, 3)
}

func TestDeleteCategoryCascades(t *testing.T) {
	remote := seedRemote()
	ds := newTestStore(t, remote, NewMemoryCache())
	require.NoError(t, ds.Initialize(context.Background()))

	mains := ds.Snapshot().Categories[1]
	require.NoError(t, ds.DeleteCategory(context.Background(), mains.ID))

	snap := ds.Snapshot()
	assert.Len(t, snap.Categories, 1)
	assert.Len(t, snap.Products, 2)
	for _, p := range snap.Products {
		assert.NotEqual(t, mains.ID, p.CategoryID)
	}
	for _, c := range snap.Categories {
		assert.NotEqual(t, mains.ID, c.ID)
	}

	ds.Wait()
	assert.Contains(t, remote.writeCalls(), "delete category")
}

func TestAddTagTwiceKeepsOneOccurrence(t *testing.T) {
	remote := seedRemote()
	ds := newTestStore(t, remote, NewMemoryCache())
	require.NoError(t, ds.Initialize(context.Background()))

	require.NoError(t, ds.AddTag(context.Background(), "halal"))
	require.NoError(t, ds.AddTag(context.Background(), "halal"))
	ds.Wait()

	occurrences := 0
	for _, tag := range ds.Snapshot().Tags {
		if tag == "halal" {
			occurrences++
		}
	}
	assert.Equal(t, 1, occurrences)

	// The duplicate add is a silent no-op, so only one remote insert fires.
	inserts := 0
	for _, call := range remote.writeCalls() {
		if call == "insert tag" {
			inserts++
		}
	}
	assert.Equal(t, 1, inserts)
}

func TestAddTagIsCaseSensitive(t *testing.T) {
	ds := newTestStore(t, seedRemote(), nil)
	require.NoError(t, ds.Initialize(context.Background()))

	require.NoError(t, ds.AddTag(context.Background(), "Halal"))
	require.NoError(t, ds.AddTag(context.Background(), "halal"))
	ds.Wait()

	assert.Contains(t, ds.Snapshot().Tags, "Halal")
	assert.Contains(t, ds.Snapshot().Tags, "halal")
}

func TestAddProductRejectsUnknownCategory(t *testing.T) {
	ds := newTestStore(t, seedRemote(), nil)
	require.NoError(t, ds.Initialize(context.Background()))

	_, err := ds.AddProduct(context.Background(), ProductInput{
		CategoryID: uuid.New(),
		Name:       "Baklava",
		Price:      6,
	})

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "category_id", validation.Field)
}

func TestAddProductUpdatesCount(t *testing.T) {
	ds := newTestStore(t, seedRemote(), NewMemoryCache())
	require.NoError(t, ds.Initialize(context.Background()))

	drinks := ds.Snapshot().Categories[0]
	_, err := ds.AddProduct(context.Background(), ProductInput{
		CategoryID: drinks.ID,
		Name:       "Turkish Tea",
		Price:      1.5,
	})
	require.NoError(t, err)

	snap := ds.Snapshot()
	assert.Len(t, snap.Products, 6)
	assert.Equal(t, 3, snap.Categories[0].ProductCount)
}

func TestFeedbackStaysLocal(t *testing.T) {
	remote := seedRemote()
	cache := NewMemoryCache()
	ds := newTestStore(t, remote, cache)
	require.NoError(t, ds.Initialize(context.Background()))

	feedback, err := ds.AddFeedback(context.Background(), FeedbackInput{
		Author: "Ali",
		Rating: 5,
	})
	require.NoError(t, err)
	require.NoError(t, ds.MarkFeedbackRead(context.Background(), feedback.ID))
	ds.Wait()

	// Feedback is never forwarded to the remote store.
	for _, call := range remote.writeCalls() {
		assert.NotContains(t, call, "feedback")
	}

	// But the cache mirror carries it.
	cached, err := cache.Read(context.Background(), "mikail-cafe")
	require.NoError(t, err)
	require.Len(t, cached.Feedback, 1)
	assert.True(t, cached.Feedback[0].IsRead)
}

func TestInitializePreservesLocalFeedbackOnRemoteReplace(t *testing.T) {
	remote := seedRemote()
	cache := NewMemoryCache()

	warm := newTestStore(t, remote, cache)
	require.NoError(t, warm.Initialize(context.Background()))
	_, err := warm.AddFeedback(context.Background(), FeedbackInput{Author: "Veli", Rating: 4})
	require.NoError(t, err)

	// A fresh instance loads the cache, then the remote replaces the
	// business graph; the local feedback collection must survive.
	ds := newTestStore(t, remote, cache)
	require.NoError(t, ds.Initialize(context.Background()))

	snap := ds.Snapshot()
	require.Len(t, snap.Feedback, 1)
	assert.Equal(t, "Veli", snap.Feedback[0].Author)
}

func TestFeedbackValidation(t *testing.T) {
	ds := newTestStore(t, seedRemote(), nil)
	require.NoError(t, ds.Initialize(context.Background()))

	_, err := ds.AddFeedback(context.Background(), FeedbackInput{Author: "", Rating: 3})
	var validation *ValidationError
	require.ErrorAs(t, err, &validation)

	_, err = ds.AddFeedback(context.Background(), FeedbackInput{Author: "Ali", Rating: 9})
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "rating", validation.Field)
}

func TestOnChangeFiresAfterLoad(t *testing.T) {
	ds := newTestStore(t, seedRemote(), nil)

	var seen []string
	ds.OnChange(func(snap Snapshot) {
		seen = append(seen, snap.Business.Name)
	})

	require.NoError(t, ds.Initialize(context.Background()))
	require.Len(t, seen, 1)

	name := "Changed"
	require.NoError(t, ds.UpdateBusiness(context.Background(), BusinessPatch{Name: &name}))
	require.Len(t, seen, 2)
	assert.Equal(t, "Changed", seen[1])
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	ds := newTestStore(t, seedRemote(), nil)
	require.NoError(t, ds.Initialize(context.Background()))

	snap := ds.Snapshot()
	snap.Business.Name = "mutated"
	snap.Products[0].Name = "mutated"
	snap.Tags[0] = "mutated"

	fresh := ds.Snapshot()
	assert.Equal(t, "Mikail Cafe", fresh.Business.Name)
	assert.Equal(t, "Espresso", fresh.Products[0].Name)
	assert.Equal(t, "spicy", fresh.Tags[0])
}
