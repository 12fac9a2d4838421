package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/yehezkielwinatali/Angelomotive/internal/core/domain"
	"github.com/yehezkielwinatali/Angelomotive/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	carCacheTTL      = 15 * time.Minute
	facetsCacheKey   = "cars:facets"
	featuredCacheKey = "cars:featured"

	// featuredFetchLimit is cached once and sliced per request, so a
	// mutation only has one key to invalidate.
	featuredFetchLimit = 12
)

type CarService struct {
	carRepo      ports.CarRepository
	wishlistRepo ports.WishlistRepository
	bookingRepo  ports.BookingRepository
	dealerRepo   ports.DealershipRepository
	storage      ports.StoragePort
	logger       ports.LoggerPort
	validate     *validator.Validate
	cache        ports.CachePort
}

func NewCarService(
	carRepo ports.CarRepository,
	wishlistRepo ports.WishlistRepository,
	bookingRepo ports.BookingRepository,
	dealerRepo ports.DealershipRepository,
	storage ports.StoragePort,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *CarService {
	return &CarService{
		carRepo:      carRepo,
		wishlistRepo: wishlistRepo,
		bookingRepo:  bookingRepo,
		dealerRepo:   dealerRepo,
		storage:      storage,
		logger:       logger,
		validate:     validate,
		cache:        cache,
	}
}

// CreateCar uploads the images one by one and inserts the listing. An upload
// failure aborts the operation; files already uploaded are not rolled back.
func (s *CarService) CreateCar(ctx context.Context, car *domain.Car, images []domain.ImageUpload) (*domain.Car, error) {
	if car.Status == "" {
		car.Status = domain.CarAvailable
	}
	if err := s.validate.Struct(car); err != nil {
		s.logger.Error("Car validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("validation error: %w", err)
	}
	if len(images) == 0 {
		return nil, fmt.Errorf("validation error: no valid images provided")
	}

	if car.ID == uuid.Nil {
		car.ID = uuid.New()
	}

	imageURLs := make([]string, 0, len(images))
	for i, img := range images {
		path := fmt.Sprintf("cars/%s/image-%d-%d%s", car.ID, time.Now().UnixMilli(), i, extensionFor(img.ContentType))
		url, err := s.storage.Upload(ctx, path, img.Data, img.ContentType)
		if err != nil {
			s.logger.Error("Failed to upload car image", map[string]interface{}{
				"error":  err.Error(),
				"car_id": car.ID,
				"index":  i,
			})
			return nil, fmt.Errorf("failed to upload image to storage: %w", err)
		}
		imageURLs = append(imageURLs, url)
	}
	car.Images = imageURLs

	createdCar, err := s.carRepo.CreateCar(ctx, car)
	if err != nil {
		s.logger.Error("Failed to create car", map[string]interface{}{
			"error":  err.Error(),
			"car_id": car.ID,
		})
		return nil, err
	}

	s.invalidateListingCaches()

	s.logger.Info("Car created successfully", map[string]interface{}{
		"car_id": createdCar.ID,
		"make":   createdCar.Make,
		"model":  createdCar.Model,
		"images": len(imageURLs),
	})

	return createdCar, nil
}

func (s *CarService) GetCars(ctx context.Context, filters domain.CarFilters, userID *uuid.UUID) ([]*domain.Car, *domain.Pagination, error) {
	filters.Normalize()

	cars, total, err := s.carRepo.ListCars(ctx, filters)
	if err != nil {
		s.logger.Error("Failed to list cars", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, nil, err
	}

	if userID != nil {
		savedIDs, err := s.wishlistRepo.GetSavedCarIDs(ctx, *userID)
		if err != nil {
			s.logger.Warn("Failed to load wishlist for annotation", map[string]interface{}{
				"error":   err.Error(),
				"user_id": userID.String(),
			})
		} else {
			saved := make(map[uuid.UUID]bool, len(savedIDs))
			for _, id := range savedIDs {
				saved[id] = true
			}
			for _, car := range cars {
				car.Wishlisted = saved[car.ID]
			}
		}
	}

	pagination := &domain.Pagination{
		Total: total,
		Page:  filters.Page,
		Limit: filters.Limit,
		Pages: domain.TotalPages(total, filters.Limit),
	}
	return cars, pagination, nil
}

// GetCarByID returns the car page payload. The car entity itself is cached;
// per-user annotations are always computed fresh.
func (s *CarService) GetCarByID(ctx context.Context, carID string, userID *uuid.UUID) (*domain.CarDetail, error) {
	carUUID, err := uuid.Parse(carID)
	if err != nil {
		return nil, fmt.Errorf("invalid car ID: %w", err)
	}

	car, err := s.getCarCached(ctx, carUUID)
	if err != nil {
		return nil, err
	}

	detail := &domain.CarDetail{Car: car}

	if userID != nil {
		wishlisted, err := s.wishlistRepo.IsSaved(ctx, *userID, carUUID)
		if err != nil {
			s.logger.Warn("Failed to check wishlist", map[string]interface{}{
				"error":  err.Error(),
				"car_id": carID,
			})
		}
		car.Wishlisted = wishlisted

		booking, err := s.bookingRepo.GetLatestUserBookingForCar(ctx, carUUID, *userID)
		if err != nil {
			s.logger.Warn("Failed to load user test drive", map[string]interface{}{
				"error":  err.Error(),
				"car_id": carID,
			})
		} else {
			detail.UserTestDrive = booking
		}
	}

	dealership, err := s.dealerRepo.GetDealership(ctx)
	if err != nil {
		s.logger.Warn("Failed to load dealership info", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		detail.Dealership = dealership
	}

	return detail, nil
}

func (s *CarService) getCarCached(ctx context.Context, carID uuid.UUID) (*domain.Car, error) {
	cacheKey := fmt.Sprintf("car:%s", carID)
	if cachedData, err := s.cache.Get(cacheKey); err == nil {
		var cachedCar domain.Car
		if err := json.Unmarshal(cachedData, &cachedCar); err == nil {
			return &cachedCar, nil
		}
	}

	car, err := s.carRepo.GetCarByID(ctx, carID)
	if err != nil {
		s.logger.Error("Failed to get car", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID.String(),
		})
		return nil, err
	}

	if carData, err := json.Marshal(car); err == nil {
		if err := s.cache.Set(cacheKey, carData, carCacheTTL); err != nil {
			s.logger.Warn("Failed to cache car", map[string]interface{}{
				"error":  err.Error(),
				"car_id": carID.String(),
			})
		}
	}
	return car, nil
}

func (s *CarService) SearchCars(ctx context.Context, search string) ([]*domain.Car, error) {
	cars, err := s.carRepo.SearchCars(ctx, search)
	if err != nil {
		s.logger.Error("Failed to search cars", map[string]interface{}{
			"error":  err.Error(),
			"search": search,
		})
		return nil, err
	}
	return cars, nil
}

func (s *CarService) GetFeaturedCars(ctx context.Context, limit int) ([]*domain.Car, error) {
	if limit <= 0 {
		limit = 3
	}
	if limit > featuredFetchLimit {
		limit = featuredFetchLimit
	}
	if cachedData, err := s.cache.Get(featuredCacheKey); err == nil {
		var cars []*domain.Car
		if err := json.Unmarshal(cachedData, &cars); err == nil {
			return capList(cars, limit), nil
		}
	}

	cars, err := s.carRepo.GetFeaturedCars(ctx, featuredFetchLimit)
	if err != nil {
		s.logger.Error("Failed to get featured cars", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if data, err := json.Marshal(cars); err == nil {
		if err := s.cache.Set(featuredCacheKey, data, carCacheTTL); err != nil {
			s.logger.Warn("Failed to cache featured cars", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return capList(cars, limit), nil
}

func capList(cars []*domain.Car, limit int) []*domain.Car {
	if len(cars) > limit {
		return cars[:limit]
	}
	return cars
}

func (s *CarService) GetCarFacets(ctx context.Context) (*domain.CarFacets, error) {
	if cachedData, err := s.cache.Get(facetsCacheKey); err == nil {
		var facets domain.CarFacets
		if err := json.Unmarshal(cachedData, &facets); err == nil {
			return &facets, nil
		}
	}

	facets, err := s.carRepo.GetCarFacets(ctx)
	if err != nil {
		s.logger.Error("Failed to get car facets", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	if data, err := json.Marshal(facets); err == nil {
		if err := s.cache.Set(facetsCacheKey, data, carCacheTTL); err != nil {
			s.logger.Warn("Failed to cache car facets", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return facets, nil
}

func (s *CarService) UpdateCarStatus(ctx context.Context, carID string, status *domain.CarStatus, featured *bool) error {
	carUUID, err := uuid.Parse(carID)
	if err != nil {
		return fmt.Errorf("invalid car ID: %w", err)
	}

	if err := s.carRepo.UpdateCarStatus(ctx, carUUID, status, featured); err != nil {
		s.logger.Error("Failed to update car status", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
		})
		return err
	}

	s.invalidateCarCaches(carUUID)

	s.logger.Info("Car status updated", map[string]interface{}{
		"car_id": carID,
	})
	return nil
}

// DeleteCar removes the listing and then tries to clean up its stored
// images. Cleanup failures are logged only; the row is already gone.
func (s *CarService) DeleteCar(ctx context.Context, carID string) error {
	carUUID, err := uuid.Parse(carID)
	if err != nil {
		return fmt.Errorf("invalid car ID: %w", err)
	}

	car, err := s.carRepo.GetCarByID(ctx, carUUID)
	if err != nil {
		s.logger.Error("Failed to get car", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
		})
		return err
	}

	if err := s.carRepo.DeleteCar(ctx, carUUID); err != nil {
		s.logger.Error("Failed to delete car", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
		})
		return err
	}

	paths := make([]string, 0, len(car.Images))
	for _, imageURL := range car.Images {
		if path := s.storage.PathFromURL(imageURL); path != "" {
			paths = append(paths, path)
		}
	}
	if len(paths) > 0 {
		if err := s.storage.Remove(ctx, paths); err != nil {
			s.logger.Warn("Failed to delete car images from storage", map[string]interface{}{
				"error":  err.Error(),
				"car_id": carID,
				"paths":  len(paths),
			})
		}
	}

	s.invalidateCarCaches(carUUID)

	s.logger.Info("Car deleted successfully", map[string]interface{}{
		"car_id": carID,
	})
	return nil
}

// ToggleSavedCar flips wishlist membership and reports the resulting state.
func (s *CarService) ToggleSavedCar(ctx context.Context, userID uuid.UUID, carID string) (bool, error) {
	carUUID, err := uuid.Parse(carID)
	if err != nil {
		return false, fmt.Errorf("invalid car ID: %w", err)
	}

	if _, err := s.carRepo.GetCarByID(ctx, carUUID); err != nil {
		return false, err
	}

	saved, err := s.wishlistRepo.IsSaved(ctx, userID, carUUID)
	if err != nil {
		s.logger.Error("Failed to check wishlist", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID,
		})
		return false, err
	}

	if saved {
		if err := s.wishlistRepo.RemoveCar(ctx, userID, carUUID); err != nil {
			return false, err
		}
		s.logger.Info("Car removed from wishlist", map[string]interface{}{
			"car_id":  carID,
			"user_id": userID.String(),
		})
		return false, nil
	}

	if err := s.wishlistRepo.SaveCar(ctx, userID, carUUID); err != nil {
		return false, err
	}
	s.logger.Info("Car added to wishlist", map[string]interface{}{
		"car_id":  carID,
		"user_id": userID.String(),
	})
	return true, nil
}

func (s *CarService) GetSavedCars(ctx context.Context, userID uuid.UUID) ([]*domain.Car, error) {
	cars, err := s.wishlistRepo.GetSavedCars(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to get saved cars", map[string]interface{}{
			"error":   err.Error(),
			"user_id": userID.String(),
		})
		return nil, err
	}
	for _, car := range cars {
		car.Wishlisted = true
	}
	return cars, nil
}

func (s *CarService) invalidateCarCaches(carID uuid.UUID) {
	keys := []string{fmt.Sprintf("car:%s", carID), facetsCacheKey, featuredCacheKey}
	if err := s.cache.Delete(keys...); err != nil {
		s.logger.Warn("Failed to invalidate car caches", map[string]interface{}{
			"error":  err.Error(),
			"car_id": carID.String(),
		})
	}
}

func (s *CarService) invalidateListingCaches() {
	if err := s.cache.Delete(facetsCacheKey, featuredCacheKey); err != nil {
		s.logger.Warn("Failed to invalidate listing caches", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}
