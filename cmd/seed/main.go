package main

import (
	"context"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/api"
	"github.com/hackgods/hospital-appointments/internal/apiclient"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/directory"
	"github.com/hackgods/hospital-appointments/internal/logging"
)

// seed registers fake doctors and patients through a running api-server.
func main() {
	_ = godotenv.Load()

	logger := logging.New(getEnv("APP_ENV", "dev"), getEnv("LOG_LEVEL", "info"))
	logger.Info().Msg("seed starting")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx)

	client := apiclient.New(getEnv("SEED_API_BASE_URL", "http://localhost:8080"), 10*time.Second)
	if err := client.Login(ctx, getEnv("SEED_ADMIN_USER", "admin"), getEnv("SEED_ADMIN_PASSWORD", "admin")); err != nil {
		logger.Fatal().Err(err).Msg("admin login failed")
	}

	faker := gofakeit.New(0)

	if err := seedDoctors(ctx, client, faker, getInt("SEED_DOCTORS", 20)); err != nil {
		logger.Fatal().Err(err).Msg("seed doctors")
	}
	if err := seedPatients(ctx, client, faker, getInt("SEED_PATIENTS", 200)); err != nil {
		logger.Fatal().Err(err).Msg("seed patients")
	}

	logger.Info().Msg("seed complete")
}

func seedDoctors(ctx context.Context, client *apiclient.Client, faker *gofakeit.Faker, count int) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Int("count", count).Msg("seeding doctors")

	specialties := directory.Specialties()
	for i := 0; i < count; i++ {
		req := api.DoctorRequest{
			ProfileRequest: fakeProfile(faker),
			Specialty:      string(specialties[faker.Number(0, len(specialties)-1)]),
			License:        faker.Numerify("#####"),
		}

		var resp api.RegisteredDoctorResponse
		if _, err := client.Do(ctx, http.MethodPost, "/doctors", req, &resp, http.StatusCreated); err != nil {
			return err
		}
		logger.Debug().
			Str("id", resp.Doctor.ID).
			Str("username", resp.Credentials.Username).
			Msg("doctor registered")
	}

	logger.Info().Msg("doctors seeded")
	return nil
}

func seedPatients(ctx context.Context, client *apiclient.Client, faker *gofakeit.Faker, count int) error {
	logger := zerolog.Ctx(ctx)
	logger.Info().Int("count", count).Msg("seeding patients")

	oldest := time.Now().AddDate(-90, 0, 0)
	youngest := time.Now().AddDate(-1, 0, 0)

	for i := 0; i < count; i++ {
		req := api.PatientRequest{
			ProfileRequest: fakeProfile(faker),
			BirthDate:      calendar.DateOf(faker.DateRange(oldest, youngest)),
			Address:        faker.Street(),
			Gender:         faker.Gender(),
		}

		if _, err := client.Do(ctx, http.MethodPost, "/patients", req, nil, http.StatusCreated); err != nil {
			return err
		}

		if (i+1)%50 == 0 {
			logger.Info().Int("done", i+1).Int("total", count).Msg("patients seeded")
		}
	}

	logger.Info().Msg("patients seeded")
	return nil
}

// fakeProfile draws a document number long enough that collisions are rare;
// a collision surfaces as a 409 and stops the run.
func fakeProfile(faker *gofakeit.Faker) api.ProfileRequest {
	return api.ProfileRequest{
		Document: faker.Numerify("##########"),
		Name:     faker.Name(),
		Email:    faker.Email(),
		Phone:    faker.Phone(),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
