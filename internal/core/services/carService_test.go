package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type fakeWishlistRepo struct {
	saved map[uuid.UUID]map[uuid.UUID]bool
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{saved: make(map[uuid.UUID]map[uuid.UUID]bool)}
}

func (r *fakeWishlistRepo) IsSaved(_ context.Context, userID, carID uuid.UUID) (bool, error) {
	return r.saved[userID][carID], nil
}

func (r *fakeWishlistRepo) SaveCar(_ context.Context, userID, carID uuid.UUID) error {
	if r.saved[userID] == nil {
		r.saved[userID] = make(map[uuid.UUID]bool)
	}
	r.saved[userID][carID] = true
	return nil
}

func (r *fakeWishlistRepo) RemoveCar(_ context.Context, userID, carID uuid.UUID) error {
	delete(r.saved[userID], carID)
	return nil
}

func (r *fakeWishlistRepo) GetSavedCarIDs(_ context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for id := range r.saved[userID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *fakeWishlistRepo) GetSavedCars(_ context.Context, _ uuid.UUID) ([]*domain.Car, error) {
	return nil, nil
}

type fakeStorage struct {
	uploads []string
	removed []string
}

func (s *fakeStorage) Upload(_ context.Context, path string, _ []byte, _ string) (string, error) {
	s.uploads = append(s.uploads, path)
	return "https://store.example.com/" + path, nil
}

func (s *fakeStorage) Remove(_ context.Context, paths []string) error {
	s.removed = append(s.removed, paths...)
	return nil
}

func (s *fakeStorage) PathFromURL(url string) string {
	return strings.TrimPrefix(url, "https://store.example.com/")
}

type fakeDealerRepo struct {
	info *domain.DealershipInfo
}

func (r *fakeDealerRepo) GetDealership(_ context.Context) (*domain.DealershipInfo, error) {
	if r.info == nil {
		return nil, domain.ErrDealershipNotFound
	}
	return r.info, nil
}

func (r *fakeDealerRepo) CreateDealership(_ context.Context, info *domain.DealershipInfo) (*domain.DealershipInfo, error) {
	r.info = info
	return info, nil
}

func (r *fakeDealerRepo) ReplaceWorkingHours(_ context.Context, _ uuid.UUID, hours []domain.WorkingHour) error {
	if r.info != nil {
		r.info.WorkingHours = hours
	}
	return nil
}

func newCarService(carRepo *fakeCarRepo, wishlistRepo *fakeWishlistRepo, bookingRepo *fakeBookingRepo, storage *fakeStorage) *CarService {
	return NewCarService(carRepo, wishlistRepo, bookingRepo, &fakeDealerRepo{}, storage, nopLogger{}, validator.New(), newFakeCache())
}

func validCar() *domain.Car {
	return &domain.Car{
		Make:         "Mazda",
		Model:        "CX-5",
		Year:         2023,
		Price:        31000,
		Mileage:      12000,
		Color:        "Red",
		FuelType:     "Petrol",
		Transmission: "Automatic",
		BodyType:     "SUV",
		Description:  "One owner, full service history.",
	}
}

func TestCreateCarUploadsImages(t *testing.T) {
	storage := &fakeStorage{}
	carRepo := newFakeCarRepo()
	svc := newCarService(carRepo, newFakeWishlistRepo(), newFakeBookingRepo(), storage)

	images := []domain.ImageUpload{
		{Data: []byte("a"), ContentType: "image/jpeg"},
		{Data: []byte("b"), ContentType: "image/png"},
	}
	created, err := svc.CreateCar(context.Background(), validCar(), images)
	if err != nil {
		t.Fatalf("CreateCar: %v", err)
	}
	if created.Status != domain.CarAvailable {
		t.Fatalf("status = %s, want AVAILABLE by default", created.Status)
	}
	if len(created.Images) != 2 {
		t.Fatalf("images = %v", created.Images)
	}
	if len(storage.uploads) != 2 {
		t.Fatalf("uploads = %v", storage.uploads)
	}
	if !strings.HasSuffix(storage.uploads[1], ".png") {
		t.Fatalf("second upload path %q should carry the png extension", storage.uploads[1])
	}
	if _, ok := carRepo.cars[created.ID]; !ok {
		t.Fatalf("car not persisted")
	}
}

func TestCreateCarRejectsInvalid(t *testing.T) {
	svc := newCarService(newFakeCarRepo(), newFakeWishlistRepo(), newFakeBookingRepo(), &fakeStorage{})

	car := validCar()
	car.Price = 0
	if _, err := svc.CreateCar(context.Background(), car, []domain.ImageUpload{{Data: []byte("a"), ContentType: "image/jpeg"}}); err == nil {
		t.Fatalf("expected validation error for zero price")
	}

	if _, err := svc.CreateCar(context.Background(), validCar(), nil); err == nil {
		t.Fatalf("expected error when no images provided")
	}
}

func TestToggleSavedCar(t *testing.T) {
	car := testCar(domain.CarAvailable)
	userID := uuid.New()
	svc := newCarService(newFakeCarRepo(car), newFakeWishlistRepo(), newFakeBookingRepo(), &fakeStorage{})

	saved, err := svc.ToggleSavedCar(context.Background(), userID, car.ID.String())
	if err != nil {
		t.Fatalf("first toggle: %v", err)
	}
	if !saved {
		t.Fatalf("first toggle should save")
	}

	saved, err = svc.ToggleSavedCar(context.Background(), userID, car.ID.String())
	if err != nil {
		t.Fatalf("second toggle: %v", err)
	}
	if saved {
		t.Fatalf("second toggle should remove")
	}
}

func TestToggleSavedCarUnknownCar(t *testing.T) {
	svc := newCarService(newFakeCarRepo(), newFakeWishlistRepo(), newFakeBookingRepo(), &fakeStorage{})

	_, err := svc.ToggleSavedCar(context.Background(), uuid.New(), uuid.New().String())
	if !errors.Is(err, domain.ErrCarNotFound) {
		t.Fatalf("err = %v, want ErrCarNotFound", err)
	}
}

func TestGetCarsAnnotatesWishlist(t *testing.T) {
	carA := testCar(domain.CarAvailable)
	carB := testCar(domain.CarAvailable)
	userID := uuid.New()

	wishlist := newFakeWishlistRepo()
	if err := wishlist.SaveCar(context.Background(), userID, carA.ID); err != nil {
		t.Fatalf("seed wishlist: %v", err)
	}

	svc := newCarService(newFakeCarRepo(carA, carB), wishlist, newFakeBookingRepo(), &fakeStorage{})

	cars, pagination, err := svc.GetCars(context.Background(), domain.CarFilters{}, &userID)
	if err != nil {
		t.Fatalf("GetCars: %v", err)
	}
	if pagination.Total != 2 || pagination.Page != 1 || pagination.Limit != 6 {
		t.Fatalf("pagination = %+v", pagination)
	}
	for _, car := range cars {
		if car.ID == carA.ID && !car.Wishlisted {
			t.Fatalf("saved car not annotated")
		}
		if car.ID == carB.ID && car.Wishlisted {
			t.Fatalf("unsaved car annotated")
		}
	}
}

func TestFeaturedCarsFreshAfterStatusChange(t *testing.T) {
	first := testCar(domain.CarAvailable)
	first.Featured = true
	second := testCar(domain.CarAvailable)
	second.Featured = true

	svc := newCarService(newFakeCarRepo(first, second), newFakeWishlistRepo(), newFakeBookingRepo(), &fakeStorage{})

	// warm the cache with one limit, then mutate and read with another
	cars, err := svc.GetFeaturedCars(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetFeaturedCars: %v", err)
	}
	if len(cars) != 2 {
		t.Fatalf("featured = %d cars, want 2", len(cars))
	}

	unfeature := false
	if err := svc.UpdateCarStatus(context.Background(), first.ID.String(), nil, &unfeature); err != nil {
		t.Fatalf("UpdateCarStatus: %v", err)
	}

	cars, err = svc.GetFeaturedCars(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetFeaturedCars after mutation: %v", err)
	}
	if len(cars) != 1 || cars[0].ID != second.ID {
		t.Fatalf("stale featured list after status change: %d cars", len(cars))
	}
}

func TestFeaturedCarsLimit(t *testing.T) {
	var seeded []*domain.Car
	for i := 0; i < 4; i++ {
		car := testCar(domain.CarAvailable)
		car.Featured = true
		seeded = append(seeded, car)
	}
	svc := newCarService(newFakeCarRepo(seeded...), newFakeWishlistRepo(), newFakeBookingRepo(), &fakeStorage{})

	cars, err := svc.GetFeaturedCars(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetFeaturedCars: %v", err)
	}
	if len(cars) != 2 {
		t.Fatalf("featured = %d cars, want the requested 2", len(cars))
	}

	// a larger request served from the same cached list
	cars, err = svc.GetFeaturedCars(context.Background(), 4)
	if err != nil {
		t.Fatalf("GetFeaturedCars: %v", err)
	}
	if len(cars) != 4 {
		t.Fatalf("featured = %d cars, want 4", len(cars))
	}
}

func TestDeleteCarCleansUpImages(t *testing.T) {
	car := testCar(domain.CarAvailable)
	car.Images = []string{
		"https://store.example.com/cars/x/image-1.jpg",
		"https://store.example.com/cars/x/image-2.jpg",
	}
	storage := &fakeStorage{}
	carRepo := newFakeCarRepo(car)
	svc := newCarService(carRepo, newFakeWishlistRepo(), newFakeBookingRepo(), storage)

	if err := svc.DeleteCar(context.Background(), car.ID.String()); err != nil {
		t.Fatalf("DeleteCar: %v", err)
	}
	if _, ok := carRepo.cars[car.ID]; ok {
		t.Fatalf("car row still present")
	}
	if len(storage.removed) != 2 {
		t.Fatalf("removed = %v, want both image keys", storage.removed)
	}
	if storage.removed[0] != "cars/x/image-1.jpg" {
		t.Fatalf("removed key = %q", storage.removed[0])
	}
}
