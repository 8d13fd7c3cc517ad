package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/example/qrmenu/internal/models"
)

// DataStore reconciles the RemoteStore and the LocalCache into one
// synchronously readable snapshot for a single tenant slug. Mutations are
// optimistic: they validate, apply to memory and the cache mirror
// immediately, then forward to the remote store in the background. A failed
// remote write is logged and never rolled back.
//
// Instances are constructed explicitly and injected; there is no ambient
// process-wide store.
type DataStore struct {
	slug   string
	remote RemoteStore
	cache  LocalCache // nil when the deployment runs without a cache
	log    *zap.Logger

	mu      sync.RWMutex
	snap    Snapshot
	loading bool
	loaded  bool

	listeners []func(Snapshot)
	forwards  sync.WaitGroup
}

// New builds a DataStore for one tenant. cache may be nil.
func New(slug string, remote RemoteStore, cache LocalCache, log *zap.Logger) *DataStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &DataStore{
		slug:   slug,
		remote: remote,
		cache:  cache,
		log:    log.With(zap.String("slug", slug)),
	}
}

// Slug returns the tenant slug this store was built for.
func (s *DataStore) Slug() string {
	return s.slug
}

// Initialize loads the snapshot: cache first so a stale view is available
// immediately, then the remote store, whose result replaces the cached one
// and is written back through. With the remote unreachable the cached view
// stands; with neither source the tenant does not exist.
func (s *DataStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	if s.cache != nil {
		cached, err := s.cache.Read(ctx, s.slug)
		switch {
		case err == nil && cached.Business != nil:
			s.mu.Lock()
			s.snap = *cached
			s.snap.recount()
			s.loaded = true
			s.mu.Unlock()
		case err != nil && !errors.Is(err, ErrNotFound):
			s.log.Warn("local cache read failed", zap.Error(err))
		}
	}

	fresh, err := s.fetchRemote(ctx)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Remote not-found is authoritative: a cached copy must not
			// keep a deleted or renamed tenant's route alive.
			s.mu.Lock()
			s.snap = Snapshot{}
			s.loaded = false
			s.loading = false
			s.mu.Unlock()
			if s.cache != nil {
				if derr := s.cache.Delete(ctx, s.slug); derr != nil {
					s.log.Warn("local cache delete failed", zap.Error(derr))
				}
			}
			return fmt.Errorf("business %q: %w", s.slug, ErrNotFound)
		}

		s.mu.Lock()
		haveCached := s.loaded
		s.loading = false
		s.mu.Unlock()

		if haveCached {
			s.log.Warn("remote load failed, serving cached snapshot", zap.Error(err))
			s.notify()
			return nil
		}
		return err
	}

	s.mu.Lock()
	// Feedback is a local collection; the remote snapshot never carries it.
	fresh.Feedback = s.snap.Feedback
	s.snap = *fresh
	s.snap.recount()
	s.loaded = true
	s.loading = false
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	return nil
}

func (s *DataStore) fetchRemote(ctx context.Context) (*Snapshot, error) {
	business, err := s.remote.FetchBusinessBySlug(ctx, s.slug)
	if err != nil {
		return nil, err
	}

	categories, err := s.remote.FetchCategories(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	products, err := s.remote.FetchProducts(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	tags, err := s.remote.FetchTags(ctx, business.ID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Business:   business,
		Categories: categories,
		Products:   products,
		Tags:       tags,
	}, nil
}

// Loading reports whether Initialize is still resolving.
func (s *DataStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Snapshot returns a deep copy of the current view.
func (s *DataStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// OnChange registers a listener invoked with a snapshot copy after every
// applied mutation and after initialization completes. Listeners never fire
// while the store is still loading.
func (s *DataStore) OnChange(fn func(Snapshot)) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Wait blocks until all in-flight remote forwards have resolved. Shutdown
// and tests use it; request paths never do.
func (s *DataStore) Wait() {
	s.forwards.Wait()
}

// BusinessPatch updates business fields by shallow replacement per top-level
// key: a present pointer replaces the whole value, nested sub-objects
// included. Callers pass complete sub-objects.
type BusinessPatch struct {
	Slug            *string                 `json:"slug,omitempty"`
	Name            *string                 `json:"name,omitempty"`
	Description     *string                 `json:"description,omitempty"`
	Phone           *string                 `json:"phone,omitempty"`
	Email           *string                 `json:"email,omitempty"`
	Address         *string                 `json:"address,omitempty"`
	Website         *string                 `json:"website,omitempty"`
	Logo            *string                 `json:"logo,omitempty"`
	CoverImage      *string                 `json:"cover_image,omitempty"`
	SocialMedia     *map[string]string      `json:"social_media,omitempty"`
	WorkingHours    *[]models.WorkingHour   `json:"working_hours,omitempty"`
	Gallery         *[]string               `json:"gallery,omitempty"`
	WelcomeSettings *models.WelcomeSettings `json:"welcome_settings,omitempty"`
	ThemeSettings   *map[string]interface{} `json:"theme_settings,omitempty"`
}

func (p BusinessPatch) validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if p.WorkingHours != nil && len(*p.WorkingHours) != 7 {
		return invalid("working_hours", "must contain exactly 7 day entries")
	}
	return nil
}

func (p BusinessPatch) apply(b *models.Business) {
	setIf := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setIf(&b.Slug, p.Slug)
	setIf(&b.Name, p.Name)
	setIf(&b.Description, p.Description)
	setIf(&b.Phone, p.Phone)
	setIf(&b.Email, p.Email)
	setIf(&b.Address, p.Address)
	setIf(&b.Website, p.Website)
	setIf(&b.Logo, p.Logo)
	setIf(&b.CoverImage, p.CoverImage)
	if p.SocialMedia != nil {
		b.SocialMedia = *p.SocialMedia
	}
	if p.WorkingHours != nil {
		b.WorkingHours = *p.WorkingHours
	}
	if p.Gallery != nil {
		b.Gallery = *p.Gallery
	}
	if p.WelcomeSettings != nil {
		ws := *p.WelcomeSettings
		b.WelcomeSettings = &ws
	}
	if p.ThemeSettings != nil {
		b.ThemeSettings = *p.ThemeSettings
	}
}

// UpdateBusiness applies the patch optimistically, mirrors it to the cache
// and forwards the merged record to the remote store.
func (s *DataStore) UpdateBusiness(ctx context.Context, patch BusinessPatch) error {
	if err := patch.validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	patch.apply(s.snap.Business)
	updated := cloneBusiness(s.snap.Business)
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("update business", func(ctx context.Context) error {
		return s.remote.UpdateBusiness(ctx, updated)
	})
	return nil
}

// CategoryInput carries the admin-form fields of a category.
type CategoryInput struct {
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	IsFeatured bool   `json:"is_featured"`
}

// AddCategory appends a new category with a locally assigned ID.
func (s *DataStore) AddCategory(ctx context.Context, input CategoryInput) (models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Category{}, invalid("name", "must not be empty")
	}

	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return models.Category{}, ErrNotFound
	}
	category := models.Category{
		BusinessID: s.snap.Business.ID,
		Name:       input.Name,
		Icon:       input.Icon,
		IsFeatured: input.IsFeatured,
	}
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	s.snap.Categories = append(s.snap.Categories, category)
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("insert category", func(ctx context.Context) error {
		c := category
		return s.remote.InsertCategory(ctx, &c)
	})
	return category, nil
}

// UpdateCategory rewrites the named fields of an existing category.
func (s *DataStore) UpdateCategory(ctx context.Context, id uuid.UUID, input CategoryInput) (models.Category, error) {
	if strings.TrimSpace(input.Name) == "" {
		return models.Category{}, invalid("name", "must not be empty")
	}

	s.mu.Lock()
	idx := -1
	for i := range s.snap.Categories {
		if s.snap.Categories[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Category{}, ErrNotFound
	}
	s.snap.Categories[idx].Name = input.Name
	s.snap.Categories[idx].Icon = input.Icon
	s.snap.Categories[idx].IsFeatured = input.IsFeatured
	s.snap.Categories[idx].UpdatedAt = time.Now()
	category := s.snap.Categories[idx]
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("update category", func(ctx context.Context) error {
		c := category
		return s.remote.UpdateCategory(ctx, &c)
	})
	return category, nil
}

// DeleteCategory removes the category and every product that belongs to it.
// The local cascade mirrors the one the remote store performs, keeping the
// snapshot self-consistent even if the remote side diverges until the next
// full reload.
func (s *DataStore) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	businessID := s.snap.Business.ID

	categories := s.snap.Categories[:0]
	found := false
	for _, c := range s.snap.Categories {
		if c.ID == id {
			found = true
			continue
		}
		categories = append(categories, c)
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.snap.Categories = categories

	products := s.snap.Products[:0]
	for _, p := range s.snap.Products {
		if p.CategoryID == id {
			continue
		}
		products = append(products, p)
	}
	s.snap.Products = products
	s.snap.recount()
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("delete category", func(ctx context.Context) error {
		return s.remote.DeleteCategory(ctx, businessID, id)
	})
	return nil
}

// ProductInput carries the admin-form fields of a product.
type ProductInput struct {
	CategoryID      uuid.UUID          `json:"category_id"`
	Name            string             `json:"name"`
	Description     string             `json:"description"`
	Price           float64            `json:"price"`
	OriginalPrice   *float64           `json:"original_price,omitempty"`
	Image           string             `json:"image"`
	Gallery         []string           `json:"gallery,omitempty"`
	IsFeatured      bool               `json:"is_featured"`
	IsNew           bool               `json:"is_new"`
	Tags            []string           `json:"tags,omitempty"`
	Variations      []models.Variation `json:"variations,omitempty"`
	Extras          []models.Extra     `json:"extras,omitempty"`
	Allergens       []string           `json:"allergens,omitempty"`
	PreparationTime int                `json:"preparation_time"`
	Calories        int                `json:"calories"`
}

func (s *DataStore) validateProductLocked(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return invalid("name", "must not be empty")
	}
	if input.Price < 0 {
		return invalid("price", "must not be negative")
	}
	for _, c := range s.snap.Categories {
		if c.ID == input.CategoryID {
			return nil
		}
	}
	return invalid("category_id", "category does not exist")
}

func productFromInput(businessID uuid.UUID, input ProductInput) models.Product {
	return models.Product{
		BusinessID:      businessID,
		CategoryID:      input.CategoryID,
		Name:            input.Name,
		Description:     input.Description,
		Price:           input.Price,
		OriginalPrice:   input.OriginalPrice,
		Image:           input.Image,
		Gallery:         input.Gallery,
		IsFeatured:      input.IsFeatured,
		IsNew:           input.IsNew,
		Tags:            input.Tags,
		Variations:      input.Variations,
		Extras:          input.Extras,
		Allergens:       input.Allergens,
		PreparationTime: input.PreparationTime,
		Calories:        input.Calories,
	}
}

// AddProduct appends a new product after checking its category exists in the
// current snapshot.
func (s *DataStore) AddProduct(ctx context.Context, input ProductInput) (models.Product, error) {
	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return models.Product{}, ErrNotFound
	}
	if err := s.validateProductLocked(input); err != nil {
		s.mu.Unlock()
		return models.Product{}, err
	}
	product := productFromInput(s.snap.Business.ID, input)
	product.ID = uuid.New()
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	s.snap.Products = append(s.snap.Products, product)
	s.snap.recount()
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("insert product", func(ctx context.Context) error {
		p := cloneProduct(product)
		return s.remote.InsertProduct(ctx, &p)
	})
	return product, nil
}

// UpdateProduct replaces the fields of an existing product.
func (s *DataStore) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (models.Product, error) {
	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return models.Product{}, ErrNotFound
	}
	if err := s.validateProductLocked(input); err != nil {
		s.mu.Unlock()
		return models.Product{}, err
	}
	idx := -1
	for i := range s.snap.Products {
		if s.snap.Products[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return models.Product{}, ErrNotFound
	}
	product := productFromInput(s.snap.Business.ID, input)
	product.ID = id
	product.CreatedAt = s.snap.Products[idx].CreatedAt
	product.UpdatedAt = time.Now()
	s.snap.Products[idx] = product
	s.snap.recount()
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("update product", func(ctx context.Context) error {
		p := cloneProduct(product)
		return s.remote.UpdateProduct(ctx, &p)
	})
	return product, nil
}

// DeleteProduct removes a product from the snapshot.
func (s *DataStore) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	businessID := s.snap.Business.ID

	products := s.snap.Products[:0]
	found := false
	for _, p := range s.snap.Products {
		if p.ID == id {
			found = true
			continue
		}
		products = append(products, p)
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.snap.Products = products
	s.snap.recount()
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("delete product", func(ctx context.Context) error {
		return s.remote.DeleteProduct(ctx, businessID, id)
	})
	return nil
}

// AddTag adds a name to the tenant's tag vocabulary. Adding an existing
// name (case-sensitive exact match) is a no-op, not an error.
func (s *DataStore) AddTag(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return invalid("name", "must not be empty")
	}

	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	for _, existing := range s.snap.Tags {
		if existing == name {
			s.mu.Unlock()
			return nil
		}
	}
	businessID := s.snap.Business.ID
	s.snap.Tags = append(s.snap.Tags, name)
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("insert tag", func(ctx context.Context) error {
		return s.remote.InsertTag(ctx, businessID, name)
	})
	return nil
}

// RemoveTag drops a name from the vocabulary. Products already labelled with
// it keep the label; the vocabulary only governs what the admin form offers.
func (s *DataStore) RemoveTag(ctx context.Context, name string) error {
	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return ErrNotFound
	}
	businessID := s.snap.Business.ID

	tags := s.snap.Tags[:0]
	found := false
	for _, t := range s.snap.Tags {
		if t == name {
			found = true
			continue
		}
		tags = append(tags, t)
	}
	if !found {
		s.mu.Unlock()
		return ErrNotFound
	}
	s.snap.Tags = tags
	s.mu.Unlock()

	s.writeCache(ctx)
	s.notify()
	s.forward("delete tag", func(ctx context.Context) error {
		return s.remote.DeleteTag(ctx, businessID, name)
	})
	return nil
}

// FeedbackInput carries a visitor-submitted review.
type FeedbackInput struct {
	Author         string                `json:"author"`
	Phone          string                `json:"phone,omitempty"`
	Rating         int                   `json:"rating"`
	Categories     models.FeedbackScores `json:"categories"`
	Comment        string                `json:"comment"`
	WouldRecommend bool                  `json:"would_recommend"`
}

// AddFeedback stores a review in the local collection. Feedback is never
// forwarded to the remote store; with the cache absent it lives only as
// long as this store instance.
func (s *DataStore) AddFeedback(ctx context.Context, input FeedbackInput) (models.Feedback, error) {
	if strings.TrimSpace(input.Author) == "" {
		return models.Feedback{}, invalid("author", "must not be empty")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return models.Feedback{}, invalid("rating", "must be between 1 and 5")
	}

	s.mu.Lock()
	if s.snap.Business == nil {
		s.mu.Unlock()
		return models.Feedback{}, ErrNotFound
	}
	feedback := models.Feedback{
		ID:             uuid.New(),
		Author:         input.Author,
		Phone:          input.Phone,
		Rating:         input.Rating,
		Categories:     input.Categories,
		Comment:        input.Comment,
		WouldRecommend: input.WouldRecommend,
		CreatedAt:      time.Now(),
	}
	s.snap.Feedback = append(s.snap.Feedback, feedback)
	s.mu.Unlock()

	s.writeCache(ctx)
	return feedback, nil
}

// MarkFeedbackRead flags one review as seen by the admin.
func (s *DataStore) MarkFeedbackRead(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	found := false
	for i := range s.snap.Feedback {
		if s.snap.Feedback[i].ID == id {
			s.snap.Feedback[i].IsRead = true
			found = true
			break
		}
	}
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}

	s.writeCache(ctx)
	return nil
}

// DeleteFeedback removes a review from the local collection.
func (s *DataStore) DeleteFeedback(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	feedback := s.snap.Feedback[:0]
	found := false
	for _, f := range s.snap.Feedback {
		if f.ID == id {
			found = true
			continue
		}
		feedback = append(feedback, f)
	}
	s.snap.Feedback = feedback
	s.mu.Unlock()
	if !found {
		return ErrNotFound
	}

	s.writeCache(ctx)
	return nil
}

func (s *DataStore) writeCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	snap := s.Snapshot()
	if err := s.cache.Write(ctx, s.slug, &snap); err != nil {
		s.log.Warn("local cache write failed", zap.Error(err))
	}
}

func (s *DataStore) notify() {
	s.mu.RLock()
	if s.loading || s.snap.Business == nil {
		s.mu.RUnlock()
		return
	}
	listeners := s.listeners
	snap := s.snap.Clone()
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

// forward runs a remote write in the background. Failures are logged and
// swallowed: the optimistic local state stands either way.
func (s *DataStore) forward(op string, fn func(context.Context) error) {
	s.forwards.Add(1)
	go func() {
		defer s.forwards.Done()
		if err := fn(context.Background()); err != nil {
			s.log.Warn("remote write failed, keeping optimistic state",
				zap.String("op", op), zap.Error(err))
		}
	}()
}
