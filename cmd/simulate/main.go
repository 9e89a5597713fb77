package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/hackgods/hospital-appointments/internal/api"
	"github.com/hackgods/hospital-appointments/internal/apiclient"
	"github.com/hackgods/hospital-appointments/internal/calendar"
	"github.com/hackgods/hospital-appointments/internal/logging"
)

type SimConfig struct {
	APIBaseURL    string
	Username      string
	Password      string
	Duration      time.Duration
	Workers       int
	BookingRatio  float64
	CancelRatio   float64
	AttendRatio   float64
	ReadRatio     float64
	DaysAhead     int
	SlotsPerDay   int
	FirstSlotHour int
}

// DataPool holds the ids the workers pick from.
type DataPool struct {
	Doctors  []string
	Patients []string

	mu           sync.RWMutex
	appointments []string
}

func (dp *DataPool) AddAppointment(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return "", false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *apiclient.Client
	metrics Metrics
	today   calendar.Date
}

func main() {
	_ = godotenv.Load()

	logger := logging.New(getEnv("APP_ENV", "dev"), getEnv("LOG_LEVEL", "info"))
	logger.Info().Msg("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	logger.Info().
		Dur("duration", cfg.Duration).
		Int("workers", cfg.Workers).
		Float64("booking", cfg.BookingRatio).
		Float64("cancel", cfg.CancelRatio).
		Float64("attend", cfg.AttendRatio).
		Float64("read", cfg.ReadRatio).
		Msg("config")

	ctx := logger.WithContext(context.Background())

	client := apiclient.New(cfg.APIBaseURL, 10*time.Second)
	if err := client.Login(ctx, cfg.Username, cfg.Password); err != nil {
		logger.Fatal().Err(err).Msg("login failed")
	}

	pool, err := loadDataPool(ctx, client)
	if err != nil {
		logger.Fatal().Err(err).Msg("load data pool")
	}
	logger.Info().Int("doctors", len(pool.Doctors)).Int("patients", len(pool.Patients)).Msg("loaded")

	sim := &Simulator{
		config: cfg,
		pool:   pool,
		client: client,
		today:  calendar.DateOf(time.Now()),
	}

	sim.Run(ctx)
	writeReport(os.Stdout, sim.config, &sim.metrics)
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:    getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Username:      getEnv("SIM_USER", "admin"),
		Password:      getEnv("SIM_PASSWORD", "admin"),
		Duration:      getDuration("SIM_DURATION", 30*time.Second),
		Workers:       getInt("SIM_WORKERS", 10),
		BookingRatio:  getFloat("SIM_BOOKING_RATIO", 0.5),
		CancelRatio:   getFloat("SIM_CANCEL_RATIO", 0.1),
		AttendRatio:   getFloat("SIM_ATTEND_RATIO", 0.1),
		ReadRatio:     getFloat("SIM_READ_RATIO", 0.3),
		DaysAhead:     getInt("SIM_DAYS_AHEAD", 5),
		SlotsPerDay:   getInt("SIM_SLOTS_PER_DAY", 16),
		FirstSlotHour: getInt("SIM_FIRST_SLOT_HOUR", 8),
	}

	total := cfg.BookingRatio + cfg.CancelRatio + cfg.AttendRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.CancelRatio /= total
		cfg.AttendRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	switch {
	case cfg.Workers <= 0:
		return errors.New("SIM_WORKERS must be > 0")
	case cfg.Duration <= 0:
		return errors.New("SIM_DURATION must be > 0")
	case cfg.DaysAhead <= 0:
		return errors.New("SIM_DAYS_AHEAD must be > 0")
	case cfg.SlotsPerDay <= 0:
		return errors.New("SIM_SLOTS_PER_DAY must be > 0")
	case cfg.FirstSlotHour < 0 || cfg.FirstSlotHour*60+cfg.SlotsPerDay*30 > 24*60:
		return errors.New("slots must fit within one day")
	}
	return nil
}

func loadDataPool(ctx context.Context, client *apiclient.Client) (*DataPool, error) {
	var doctors, patients []api.PersonResponse

	if _, err := client.Do(ctx, http.MethodGet, "/doctors", nil, &doctors, http.StatusOK); err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	if _, err := client.Do(ctx, http.MethodGet, "/patients", nil, &patients, http.StatusOK); err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}

	pool := &DataPool{}
	for _, d := range doctors {
		if d.Available() {
			pool.Doctors = append(pool.Doctors, d.ID)
		}
	}
	for _, p := range patients {
		pool.Patients = append(pool.Patients, p.ID)
	}

	if len(pool.Doctors) == 0 {
		return nil, errors.New("no available doctors")
	}
	if len(pool.Patients) == 0 {
		return nil, errors.New("no patients")
	}
	return pool, nil
}

func (s *Simulator) Run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Duration)
	defer cancel()

	zerolog.Ctx(ctx).Info().Int("workers", s.config.Workers).Msg("starting simulation")

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	zerolog.Ctx(ctx).Info().Msg("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for ctx.Err() == nil {
		r := rng.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, rng)
		case r < s.config.BookingRatio+s.config.CancelRatio:
			s.doTransition(ctx, rng, "cancel", &s.metrics.Cancel)
		case r < s.config.BookingRatio+s.config.CancelRatio+s.config.AttendRatio:
			s.doTransition(ctx, rng, "attend", &s.metrics.Attend)
		default:
			if rng.Intn(2) == 0 {
				s.doReadByID(ctx, rng)
			} else {
				s.doListByDate(ctx, rng)
			}
		}
	}
}

// randomSlot picks a half-hour slot in the next DaysAhead days.
func (s *Simulator) randomSlot(rng *rand.Rand) (calendar.Date, calendar.TimeOfDay) {
	date := s.today.AddDays(1 + rng.Intn(s.config.DaysAhead))
	minutes := s.config.FirstSlotHour*60 + rng.Intn(s.config.SlotsPerDay)*30
	return date, calendar.MustTime(minutes/60, minutes%60)
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	date, at := s.randomSlot(rng)
	req := api.AppointmentRequest{
		PatientID: s.pool.Patients[rng.Intn(len(s.pool.Patients))],
		DoctorID:  s.pool.Doctors[rng.Intn(len(s.pool.Doctors))],
		Date:      date,
		Time:      at,
		Price:     float64(rng.Intn(200)) * 1000,
		Reason:    "simulated visit",
	}

	start := time.Now()
	var resp api.AppointmentResponse
	status, err := s.client.Do(ctx, http.MethodPost, "/appointments", req, &resp, http.StatusCreated)
	latency := time.Since(start)

	if err == nil {
		s.pool.AddAppointment(resp.ID)
	}
	s.metrics.Booking.Record(latency, classify(status, err))
}

func (s *Simulator) doTransition(ctx context.Context, rng *rand.Rand, action string, om *OperationMetrics) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.client.Do(ctx, http.MethodPost, "/appointments/"+id+"/"+action, nil, nil, http.StatusOK)
	om.Record(time.Since(start), classify(status, err))
}

func (s *Simulator) doReadByID(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}

	start := time.Now()
	status, err := s.client.Do(ctx, http.MethodGet, "/appointments/"+id, nil, nil, http.StatusOK)
	s.metrics.ReadByID.Record(time.Since(start), classify(status, err))
}

func (s *Simulator) doListByDate(ctx context.Context, rng *rand.Rand) {
	date, _ := s.randomSlot(rng)

	start := time.Now()
	status, err := s.client.Do(ctx, http.MethodGet, "/appointments?date="+date.String(), nil, nil, http.StatusOK)
	s.metrics.ListByDate.Record(time.Since(start), classify(status, err))
}

func classify(status int, err error) Outcome {
	switch {
	case err == nil:
		return OutcomeSuccess
	case status == http.StatusConflict:
		return OutcomeConflict
	default:
		return OutcomeError
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
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

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
