package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/driveline-rentals/service-rental/internal/auth"
	"github.com/driveline-rentals/service-rental/internal/config"
	"github.com/driveline-rentals/service-rental/internal/database"
	userDomain "github.com/driveline-rentals/service-rental/internal/domain/user"
	vehicleDomain "github.com/driveline-rentals/service-rental/internal/domain/vehicle"
	"github.com/driveline-rentals/service-rental/internal/logger"
	"github.com/driveline-rentals/service-rental/internal/repository"
)

// Seeds a development database with an admin account and a small sample
// fleet so the storefront has something to show.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewNamed(cfg.AppEnv, "service-rental-seed")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DBConfig, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&repository.UserModel{},
		&repository.VehicleModel{},
		&repository.BookingModel{},
		&repository.ReviewModel{},
		&repository.FavoriteModel{},
	); err != nil {
		log.Fatal("failed to run auto-migration", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := repository.NewGormUserRepository(db)
	vehicleRepo := repository.NewGormVehicleRepository(db)

	seedAdmin(ctx, userRepo, log)
	seedFleet(ctx, vehicleRepo, log)

	log.Info("seed completed")
}

func seedAdmin(ctx context.Context, users *repository.GormUserRepository, log *zap.Logger) {
	const adminEmail = "admin@driveline.dev"

	if _, err := users.FindByEmail(ctx, adminEmail); err == nil {
		log.Info("admin account already present", zap.String("email", adminEmail))
		return
	}

	hash, err := auth.HashPassword("admin-dev-password")
	if err != nil {
		log.Fatal("failed to hash admin password", zap.Error(err))
	}

	admin, err := userDomain.NewUser("Driveline Admin", adminEmail, hash)
	if err != nil {
		log.Fatal("failed to build admin account", zap.Error(err))
	}
	if err := admin.ChangeRole(auth.RoleAdmin); err != nil {
		log.Fatal("failed to assign admin role", zap.Error(err))
	}

	if err := users.Save(ctx, admin); err != nil {
		log.Fatal("failed to save admin account", zap.Error(err))
	}
	log.Info("admin account created", zap.String("email", adminEmail))
}

type fleetEntry struct {
	make_        string
	model        string
	year         int
	bodyType     vehicleDomain.BodyType
	dailyRate    float64
	location     string
	description  string
	seats        int
	transmission string
	fuelType     string
	features     []string
	insurance    []vehicleDomain.InsuranceOption
	specs        *vehicleDomain.Specifications
}

func seedFleet(ctx context.Context, vehicles *repository.GormVehicleRepository, log *zap.Logger) {
	standardInsurance := []vehicleDomain.InsuranceOption{
		{Name: "basic", DailyRate: 9.99},
		{Name: "premium", DailyRate: 24.99},
	}

	fleet := []fleetEntry{
		{
			make_: "Toyota", model: "RAV4", year: 2023,
			bodyType: vehicleDomain.BodyTypeSUV, dailyRate: 89,
			location: "Austin", description: "Compact SUV with all-wheel drive, ideal for weekend trips.",
			seats: 5, transmission: "automatic", fuelType: "hybrid",
			features:  []string{"apple_carplay", "backup_camera", "awd"},
			insurance: standardInsurance,
			specs: &vehicleDomain.Specifications{
				Engine: "2.5L I4 Hybrid", Horsepower: 219, Drivetrain: "AWD", FuelEconomy: "39 mpg combined",
			},
		},
		{
			make_: "Honda", model: "Civic", year: 2024,
			bodyType: vehicleDomain.BodyTypeSedan, dailyRate: 59,
			location: "Austin", description: "Economical sedan for city driving.",
			seats: 5, transmission: "automatic", fuelType: "gasoline",
			features:  []string{"apple_carplay", "lane_assist"},
			insurance: standardInsurance,
			specs: &vehicleDomain.Specifications{
				Engine: "2.0L I4", Horsepower: 158, Drivetrain: "FWD", FuelEconomy: "36 mpg combined",
			},
		},
		{
			make_: "Ford", model: "F-150", year: 2022,
			bodyType: vehicleDomain.BodyTypeTruck, dailyRate: 119,
			location: "Dallas", description: "Full-size pickup with towing package.",
			seats: 5, transmission: "automatic", fuelType: "gasoline",
			features:  []string{"tow_hitch", "bed_liner", "backup_camera"},
			insurance: standardInsurance,
			specs: &vehicleDomain.Specifications{
				Engine: "3.5L V6 EcoBoost", Horsepower: 400, Drivetrain: "4WD", FuelEconomy: "20 mpg combined",
			},
		},
		{
			make_: "BMW", model: "4 Series", year: 2023,
			bodyType: vehicleDomain.BodyTypeCoupe, dailyRate: 149,
			location: "Dallas", description: "Sport coupe with premium interior.",
			seats: 4, transmission: "automatic", fuelType: "gasoline",
			features:  []string{"leather_seats", "sunroof", "heated_seats"},
			insurance: standardInsurance,
			specs: &vehicleDomain.Specifications{
				Engine: "3.0L I6 Turbo", Horsepower: 382, Drivetrain: "RWD", FuelEconomy: "25 mpg combined",
			},
		},
		{
			make_: "Chrysler", model: "Pacifica", year: 2023,
			bodyType: vehicleDomain.BodyTypeVan, dailyRate: 99,
			location: "Houston", description: "Seven-seat minivan for family travel.",
			seats: 7, transmission: "automatic", fuelType: "gasoline",
			features:  []string{"rear_entertainment", "stow_and_go"},
			insurance: standardInsurance,
			specs: &vehicleDomain.Specifications{
				Engine: "3.6L V6", Horsepower: 287, Drivetrain: "FWD", FuelEconomy: "22 mpg combined",
			},
		},
		{
			make_: "Mazda", model: "MX-5 Miata", year: 2024,
			bodyType: vehicleDomain.BodyTypeConvertible, dailyRate: 109,
			location: "Houston", description: "Two-seat roadster, soft top.",
			seats: 2, transmission: "manual", fuelType: "gasoline",
			features:  []string{"convertible_top", "bose_audio"},
			insurance: standardInsurance,
			specs: &vehicleDomain.Specifications{
				Engine: "2.0L I4", Horsepower: 181, Drivetrain: "RWD", FuelEconomy: "30 mpg combined",
			},
		},
	}

	for _, entry := range fleet {
		images := []string{
			fmt.Sprintf("https://cdn.driveline.dev/fleet/%s-%s-front.jpg", entry.make_, entry.model),
			fmt.Sprintf("https://cdn.driveline.dev/fleet/%s-%s-side.jpg", entry.make_, entry.model),
		}

		v, err := vehicleDomain.NewVehicle(
			entry.make_, entry.model, entry.year,
			entry.bodyType,
			entry.dailyRate,
			images,
			entry.location,
			entry.description,
			entry.seats,
			entry.transmission, entry.fuelType,
			entry.features,
			entry.insurance,
			entry.specs,
		)
		if err != nil {
			log.Fatal("failed to build seed vehicle",
				zap.String("model", entry.model),
				zap.Error(err),
			)
		}

		if err := vehicles.Save(ctx, v); err != nil {
			log.Fatal("failed to save seed vehicle",
				zap.String("model", entry.model),
				zap.Error(err),
			)
		}
		log.Info("seeded vehicle",
			zap.String("make", entry.make_),
			zap.String("model", entry.model),
		)
	}
}
