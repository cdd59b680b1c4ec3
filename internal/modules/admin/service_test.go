package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxibooking/internal/database"
	"taxibooking/internal/domain"
	"taxibooking/internal/events"
	"taxibooking/internal/repository"
)

type recordingPublisher struct {
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) {
	p.events = append(p.events, e)
}

type adminFixture struct {
	svc      *Service
	bookings *repository.BookingRepository
	users    *repository.UserRepository
	pub      *recordingPublisher
}

func setupAdmin(t *testing.T) *adminFixture {
	t.Helper()
	db, err := database.ConnectMemory("admin_" + strings.ReplaceAll(t.Name(), "/", "_"))
	require.NoError(t, err)
	require.NoError(t, repository.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	f := &adminFixture{
		bookings: repository.NewBookingRepository(db),
		users:    repository.NewUserRepository(db),
		pub:      &recordingPublisher{},
	}
	f.svc = NewService(
		repository.NewTaxiRepository(db),
		repository.NewRouteRepository(db),
		f.bookings,
		f.users,
		f.pub,
		time.UTC,
		nil,
	)
	return f
}

func validTaxi() CreateTaxiRequest {
	return CreateTaxiRequest{
		Name: "Metro", Model: "Maruti Ertiga", VehicleNumber: "dl01ca0001",
		TaxiType: "SUV", Capacity: 6, PricePerKm: 1500,
	}
}

func TestAddTaxiAndRoute(t *testing.T) {
	f := setupAdmin(t)
	ctx := context.Background()

	taxi, err := f.svc.AddTaxi(ctx, 1, validTaxi())
	require.NoError(t, err)
	assert.Equal(t, "DL01CA0001", taxi.VehicleNumber)
	assert.True(t, taxi.IsActive)
	assert.True(t, taxi.IsApproved)

	_, err = f.svc.AddTaxi(ctx, 1, validTaxi())
	assert.True(t, domain.IsConflict(err))

	bad := validTaxi()
	bad.VehicleNumber = "DL01CA0002"
	bad.TaxiType = "Rickshaw"
	_, err = f.svc.AddTaxi(ctx, 1, bad)
	assert.True(t, domain.IsValidation(err))

	bad = validTaxi()
	bad.VehicleNumber = "DL01CA0003"
	bad.Capacity = 11
	_, err = f.svc.AddTaxi(ctx, 1, bad)
	assert.True(t, domain.IsValidation(err))

	route, err := f.svc.AddRoute(ctx, 1, CreateRouteRequest{
		TaxiID: taxi.ID, Source: "Delhi", Destination: "Agra",
		DepartureTime: "06:15", ArrivalTime: "10:00", DistanceKm: 230, Price: 450000,
	})
	require.NoError(t, err)
	assert.True(t, route.IsActive)
	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.CatalogChanged, f.pub.events[0].Type)
	assert.Equal(t, route.ID, f.pub.events[0].RouteID)
	assert.Equal(t, taxi.ID, f.pub.events[0].TaxiID)

	_, err = f.svc.AddRoute(ctx, 1, CreateRouteRequest{
		TaxiID: taxi.ID, Source: "Delhi", Destination: "Agra",
		DepartureTime: "25:00", ArrivalTime: "10:00", DistanceKm: 230,
	})
	assert.True(t, domain.IsValidation(err))

	_, err = f.svc.AddRoute(ctx, 1, CreateRouteRequest{
		TaxiID: 999, Source: "Delhi", Destination: "Agra",
		DepartureTime: "06:00", ArrivalTime: "10:00", DistanceKm: 230,
	})
	assert.True(t, domain.IsNotFound(err))

	routes, err := f.svc.ListRoutes(ctx)
	require.NoError(t, err)
	assert.Len(t, routes, 1)
	assert.Len(t, f.pub.events, 1)
}

func TestSetTaxiApproval(t *testing.T) {
	f := setupAdmin(t)
	ctx := context.Background()

	pending := false
	req := validTaxi()
	req.Approved = &pending
	taxi, err := f.svc.AddTaxi(ctx, 1, req)
	require.NoError(t, err)
	require.False(t, taxi.IsApproved)
	assert.Empty(t, f.pub.events)

	taxi, err = f.svc.SetTaxiApproval(ctx, taxi.ID, 1, true)
	require.NoError(t, err)
	assert.True(t, taxi.IsApproved)
	require.Len(t, f.pub.events, 1)
	assert.Equal(t, events.CatalogChanged, f.pub.events[0].Type)
	assert.Equal(t, taxi.ID, f.pub.events[0].TaxiID)

	_, err = f.svc.SetTaxiApproval(ctx, 404, 1, true)
	assert.True(t, domain.IsNotFound(err))
	assert.Len(t, f.pub.events, 1)
}

func TestListBookingsAndStats(t *testing.T) {
	f := setupAdmin(t)
	ctx := context.Background()

	taxi, err := f.svc.AddTaxi(ctx, 1, validTaxi())
	require.NoError(t, err)
	route, err := f.svc.AddRoute(ctx, 1, CreateRouteRequest{
		TaxiID: taxi.ID, Source: "Delhi", Destination: "Jaipur",
		DepartureTime: "07:00", ArrivalTime: "12:30", DistanceKm: 280, Price: 500000,
	})
	require.NoError(t, err)

	insert := func(code, day string, status domain.BookingStatus, paid domain.PaymentStatus) {
		w, err := domain.ParseDay(day, time.UTC)
		require.NoError(t, err)
		require.NoError(t, f.bookings.Insert(ctx, &domain.Booking{
			Code: code, UserID: 2, TaxiID: taxi.ID, RouteID: route.ID,
			RideDate: w.Start, RideDay: w.Key(), PassengerCount: 1,
			Passenger:   domain.PassengerContact{Name: "N", Phone: "1"},
			TotalAmount: route.Price, PaymentStatus: paid, Status: status,
		}))
	}
	insert("TAXIADM00001", "2030-05-01", domain.BookingConfirmed, domain.PaymentCompleted)
	insert("TAXIADM00002", "2030-05-02", domain.BookingCancelled, domain.PaymentRefunded)
	insert("TAXIADM00003", "2030-05-03", domain.BookingCompleted, domain.PaymentCompleted)

	all, err := f.svc.ListBookings(ctx, "", "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	cancelled, err := f.svc.ListBookings(ctx, "Cancelled", "", taxi.ID)
	require.NoError(t, err)
	require.Len(t, cancelled, 1)
	assert.Equal(t, "TAXIADM00002", cancelled[0].Code)

	onDay, err := f.svc.ListBookings(ctx, "", "2030-05-03", 0)
	require.NoError(t, err)
	require.Len(t, onDay, 1)
	assert.Equal(t, "TAXIADM00003", onDay[0].Code)

	_, err = f.svc.ListBookings(ctx, "pending", "", 0)
	assert.True(t, domain.IsValidation(err))

	require.NoError(t, f.users.Create(ctx, &domain.User{Name: "P", Email: "p@example.in", PasswordHash: "x"}))
	require.NoError(t, f.users.Create(ctx, &domain.User{Name: "A", Email: "a@example.in", PasswordHash: "x", Role: domain.RoleAdmin}))

	stats, err := f.svc.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Bookings.Total)
	assert.Equal(t, int64(1), stats.Bookings.Confirmed)
	assert.Equal(t, int64(1), stats.Bookings.Cancelled)
	assert.Equal(t, int64(1), stats.Bookings.Completed)
	assert.Equal(t, int64(1000000), stats.Revenue)
	assert.Equal(t, int64(1), stats.Taxis)
	assert.Equal(t, int64(1), stats.Routes)
	assert.Equal(t, int64(1), stats.Users)
}

func TestSetUserActive(t *testing.T) {
	f := setupAdmin(t)
	ctx := context.Background()

	u := &domain.User{Name: "Kiran", Email: "kiran@example.in", PasswordHash: "hash"}
	require.NoError(t, f.users.Create(ctx, u))

	got, err := f.svc.SetUserActive(ctx, u.ID, 99, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Empty(t, got.PasswordHash)

	_, err = f.svc.SetUserActive(ctx, 99, 99, false)
	assert.True(t, domain.IsValidation(err))

	_, err = f.svc.SetUserActive(ctx, 777, 99, true)
	assert.True(t, domain.IsNotFound(err))

	users, err := f.svc.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.False(t, users[0].IsActive)
}

func TestHandler_AdminOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	f := setupAdmin(t)

	r := gin.New()
	protected := r.Group("/api/v1")
	protected.Use(func(c *gin.Context) {
		c.Set("user_id", int64(1))
		c.Set("role", c.GetHeader("X-Test-Role"))
		c.Next()
	})
	NewHandler(f.svc).RegisterRoutes(protected)

	do := func(method, path, role, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Test-Role", role)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/api/v1/admin/stats", "user", "").Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/api/v1/admin/stats", "admin", "").Code)

	rr := do(http.MethodPost, "/api/v1/admin/taxis", "admin",
		`{"name":"Metro","model":"Ertiga","vehicleNumber":"DL01CA0009","taxiType":"SUV","capacity":6}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(http.MethodPut, "/api/v1/admin/users/5", "admin", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(http.MethodGet, "/api/v1/admin/bookings?taxiId=x", "admin", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
