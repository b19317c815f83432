package services

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	appauth "github.com/Kaustubh-Sir/cropsuit/internal/app/auth"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/models/dto"
	"github.com/Kaustubh-Sir/cropsuit/internal/app/repositories"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/apperrors"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/farmonaut"
	"github.com/Kaustubh-Sir/cropsuit/internal/pkg/openweather"
)

var fixedNow = time.Date(2025, 7, 15, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// store is a tiny in-memory table keyed by id
type store[T any] struct {
	mu       sync.Mutex
	rows     map[int64]*T
	nextID   int64
	notFound error
}

func newStore[T any](notFound error) *store[T] {
	return &store[T]{rows: map[int64]*T{}, notFound: notFound}
}

func (s *store[T]) insert(v *T) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.rows[s.nextID] = v
	return s.nextID
}

func (s *store[T]) get(id int64) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.rows[id]
	if !ok {
		return nil, s.notFound
	}
	cp := *v
	return &cp, nil
}

func (s *store[T]) put(id int64, v *T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return s.notFound
	}
	cp := *v
	s.rows[id] = &cp
	return nil
}

func (s *store[T]) remove(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return s.notFound
	}
	delete(s.rows, id)
	return nil
}

// fakeUserRepo implements repositories.IUserRepository
type fakeUserRepo struct {
	*store[models.User]
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{newStore[models.User](apperrors.ErrUserNotFound)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	if exists, _ := r.EmailExists(context.Background(), u.Email); exists {
		return apperrors.ErrEmailAlreadyExists
	}
	u.ApplyDefaults()
	cp := *u
	u.ID = r.insert(&cp)
	cp.ID = u.ID
	return r.put(u.ID, &cp)
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) { return r.get(id) }

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *fakeUserRepo) UpdateDetails(_ context.Context, u *models.User) error {
	u.Email = strings.ToLower(u.Email)
	return r.put(u.ID, u)
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.Password = hash
	return r.put(id, u)
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	u, err := r.get(id)
	if err != nil {
		return err
	}
	u.LastLogin = &at
	return r.put(id, u)
}

// fakeCropRepo implements repositories.ICropRepository
type fakeCropRepo struct {
	*store[models.Crop]
}

func newFakeCropRepo() *fakeCropRepo {
	return &fakeCropRepo{newStore[models.Crop](apperrors.ErrCropNotFound)}
}

func (r *fakeCropRepo) Create(_ context.Context, c *models.Crop) error {
	c.ApplyDefaults()
	c.Recalculate()
	c.ID = r.insert(c)
	return r.put(c.ID, c)
}

func (r *fakeCropRepo) GetByID(_ context.Context, id int64) (*models.Crop, error) { return r.get(id) }

func (r *fakeCropRepo) GetOwnerID(_ context.Context, id int64) (int64, error) {
	c, err := r.get(id)
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}

func (r *fakeCropRepo) List(ctx context.Context, p repositories.ListParams, _ dto.CropFilter) ([]*models.Crop, int64, error) {
	all, err := r.ListAll(ctx, p.UserID)
	return all, int64(len(all)), err
}

func (r *fakeCropRepo) ListAll(_ context.Context, userID int64) ([]*models.Crop, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.Crop{}
	for id := int64(1); id <= r.nextID; id++ {
		if c, ok := r.rows[id]; ok && c.UserID == userID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeCropRepo) Update(_ context.Context, c *models.Crop) error {
	c.ApplyDefaults()
	c.Recalculate()
	return r.put(c.ID, c)
}

func (r *fakeCropRepo) Delete(_ context.Context, id int64) error { return r.remove(id) }

func (r *fakeCropRepo) Stats(context.Context, int64) (*dto.CropStats, error) {
	return &dto.CropStats{ByStatus: []dto.CropStatusStat{}, ByCategory: []dto.CropCategoryStat{}}, nil
}

// fakeFertilizerRepo implements repositories.IFertilizerRecommendationRepository
type fakeFertilizerRepo struct {
	*store[models.FertilizerRecommendation]
}

func newFakeFertilizerRepo() *fakeFertilizerRepo {
	return &fakeFertilizerRepo{newStore[models.FertilizerRecommendation](apperrors.ErrFertilizerRecommendationNotFound)}
}

func (r *fakeFertilizerRepo) Create(_ context.Context, f *models.FertilizerRecommendation) error {
	f.ApplyDefaults()
	f.Recalculate()
	f.ID = r.insert(f)
	return r.put(f.ID, f)
}

func (r *fakeFertilizerRepo) GetByID(_ context.Context, id int64) (*models.FertilizerRecommendation, error) {
	return r.get(id)
}

func (r *fakeFertilizerRepo) GetOwnerID(_ context.Context, id int64) (int64, error) {
	f, err := r.get(id)
	if err != nil {
		return 0, err
	}
	return f.UserID, nil
}

func (r *fakeFertilizerRepo) List(context.Context, repositories.ListParams, dto.FertilizerFilter) ([]*models.FertilizerRecommendation, int64, error) {
	return []*models.FertilizerRecommendation{}, 0, nil
}

func (r *fakeFertilizerRepo) Update(_ context.Context, f *models.FertilizerRecommendation) error {
	f.ApplyDefaults()
	f.Recalculate()
	return r.put(f.ID, f)
}

func (r *fakeFertilizerRepo) Delete(_ context.Context, id int64) error { return r.remove(id) }

// fakeCropRecRepo implements repositories.ICropRecommendationRepository
type fakeCropRecRepo struct {
	*store[models.CropRecommendation]
	expired int64
}

func newFakeCropRecRepo() *fakeCropRecRepo {
	return &fakeCropRecRepo{store: newStore[models.CropRecommendation](apperrors.ErrCropRecommendationNotFound)}
}

func (r *fakeCropRecRepo) Create(_ context.Context, c *models.CropRecommendation) error {
	c.ApplyDefaults(fixedNow)
	c.Recalculate()
	c.ID = r.insert(c)
	return r.put(c.ID, c)
}

func (r *fakeCropRecRepo) GetByID(_ context.Context, id int64) (*models.CropRecommendation, error) {
	return r.get(id)
}

func (r *fakeCropRecRepo) GetOwnerID(_ context.Context, id int64) (int64, error) {
	c, err := r.get(id)
	if err != nil {
		return 0, err
	}
	return c.UserID, nil
}

func (r *fakeCropRecRepo) List(context.Context, repositories.ListParams, dto.CropRecommendationFilter) ([]*models.CropRecommendation, int64, error) {
	return []*models.CropRecommendation{}, 0, nil
}

func (r *fakeCropRecRepo) Update(_ context.Context, c *models.CropRecommendation) error {
	return r.put(c.ID, c)
}

func (r *fakeCropRecRepo) Delete(_ context.Context, id int64) error { return r.remove(id) }

func (r *fakeCropRecRepo) ExpireStale(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.rows {
		if c.Expired(now) {
			c.Status = models.CropRecommendationExpired
			n++
		}
	}
	r.expired += n
	return n, nil
}

// fakePlanRepo implements repositories.ISeasonalPlanRepository
type fakePlanRepo struct {
	*store[models.SeasonalPlan]
}

func newFakePlanRepo() *fakePlanRepo {
	return &fakePlanRepo{newStore[models.SeasonalPlan](apperrors.ErrSeasonalPlanNotFound)}
}

func (r *fakePlanRepo) Create(_ context.Context, p *models.SeasonalPlan) error {
	p.ApplyDefaults()
	p.Recalculate()
	p.ID = r.insert(p)
	return r.put(p.ID, p)
}

func (r *fakePlanRepo) GetByID(_ context.Context, id int64) (*models.SeasonalPlan, error) {
	p, err := r.get(id)
	if err != nil {
		return nil, err
	}
	// detach slices from the stored copy
	p.Milestones = append([]models.Milestone(nil), p.Milestones...)
	p.Notes = append([]models.Note(nil), p.Notes...)
	p.ApplyDefaults()
	return p, nil
}

func (r *fakePlanRepo) GetOwnerID(_ context.Context, id int64) (int64, error) {
	p, err := r.get(id)
	if err != nil {
		return 0, err
	}
	return p.UserID, nil
}

func (r *fakePlanRepo) List(context.Context, repositories.ListParams, dto.PlanFilter) ([]*models.SeasonalPlan, int64, error) {
	return []*models.SeasonalPlan{}, 0, nil
}

func (r *fakePlanRepo) Update(_ context.Context, p *models.SeasonalPlan) error {
	p.ApplyDefaults()
	p.Recalculate()
	return r.put(p.ID, p)
}

func (r *fakePlanRepo) Delete(_ context.Context, id int64) error { return r.remove(id) }

func (r *fakePlanRepo) Stats(context.Context, int64) (*dto.PlanStats, error) {
	return &dto.PlanStats{ByStatus: []dto.PlanStatusStat{}, BySeason: []dto.PlanSeasonStat{}}, nil
}

// fakeWeatherRepo implements repositories.IWeatherRepository
type fakeWeatherRepo struct {
	mu     sync.Mutex
	saved  []*models.WeatherData
	cutoff time.Time
	purges int
	err    error
}

func (r *fakeWeatherRepo) purgeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.purges
}

func (r *fakeWeatherRepo) Create(_ context.Context, d *models.WeatherData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	d.ID = int64(len(r.saved) + 1)
	r.saved = append(r.saved, d)
	return nil
}

func (r *fakeWeatherRepo) History(_ context.Context, _ repositories.ListParams) ([]*models.WeatherData, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saved, int64(len(r.saved)), nil
}

func (r *fakeWeatherRepo) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cutoff = cutoff
	r.purges++
	return int64(len(r.saved)), nil
}

// fakeWeatherProvider implements WeatherProvider
type fakeWeatherProvider struct {
	enabled  bool
	err      error
	snapshot *openweather.Snapshot
	forecast *openweather.Forecast
}

func (p *fakeWeatherProvider) Enabled() bool { return p.enabled }

func (p *fakeWeatherProvider) Current(context.Context, float64, float64) (*openweather.Snapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.snapshot, nil
}

func (p *fakeWeatherProvider) CurrentByCity(context.Context, string, string) (*openweather.Snapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.snapshot, nil
}

func (p *fakeWeatherProvider) Forecast(context.Context, float64, float64, int) (*openweather.Forecast, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.forecast, nil
}

// fakeFarmonaut implements FarmonautProvider; block makes calls wait for ctx
type fakeFarmonaut struct {
	err   error
	block bool
	calls sync.Map
}

func (f *fakeFarmonaut) Enabled() bool { return true }

func (f *fakeFarmonaut) wait(ctx context.Context, call string) error {
	f.calls.Store(call, true)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeFarmonaut) CropRecommendations(ctx context.Context, q farmonaut.CropQuery) (*farmonaut.CropRecommendations, error) {
	if err := f.wait(ctx, "crops"); err != nil {
		return nil, err
	}
	return &farmonaut.CropRecommendations{Success: true, Season: q.Season, Recommendations: []string{"Rice"},
		Metadata: farmonaut.Metadata{Source: farmonaut.SourceAPI}}, nil
}

func (f *fakeFarmonaut) Weather(ctx context.Context, _ farmonaut.Location) (*farmonaut.WeatherReport, error) {
	if err := f.wait(ctx, "weather"); err != nil {
		return nil, err
	}
	return &farmonaut.WeatherReport{Success: true, Metadata: farmonaut.Metadata{Source: farmonaut.SourceAPI}}, nil
}

func (f *fakeFarmonaut) FertilizerRecommendations(ctx context.Context, q farmonaut.FertilizerQuery) (*farmonaut.FertilizerReport, error) {
	if err := f.wait(ctx, "fertilizer"); err != nil {
		return nil, err
	}
	return &farmonaut.FertilizerReport{Success: true, Metadata: farmonaut.Metadata{Source: farmonaut.SourceAPI, CropType: q.CropType}}, nil
}

func (f *fakeFarmonaut) SatelliteData(ctx context.Context, _ farmonaut.SatelliteQuery) (json.RawMessage, error) {
	if err := f.wait(ctx, "satellite"); err != nil {
		return nil, err
	}
	return json.RawMessage(`{"ndvi":0.7}`), nil
}

// fixture wires the domain services over in-memory fakes
type fixture struct {
	users   *fakeUserRepo
	crops   *fakeCropRepo
	ferts   *fakeFertilizerRepo
	recs    *fakeCropRecRepo
	plans   *fakePlanRepo
	weather *fakeWeatherRepo
	authz   *appauth.AuthorizationService
}

func newFixture() *fixture {
	f := &fixture{
		users:   newFakeUserRepo(),
		crops:   newFakeCropRepo(),
		ferts:   newFakeFertilizerRepo(),
		recs:    newFakeCropRecRepo(),
		plans:   newFakePlanRepo(),
		weather: &fakeWeatherRepo{},
	}
	f.authz = appauth.NewAuthorizationService(f.users, f.crops, f.ferts, f.recs, f.plans)
	return f
}
