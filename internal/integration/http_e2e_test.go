//go:build integration || !unit

package integration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"golang.org/x/crypto/bcrypt"

	"hotel_reservation/internal/adapters/apiclient"
	"hotel_reservation/internal/adapters/authn"
	httpserver "hotel_reservation/internal/adapters/http_server"
	redisad "hotel_reservation/internal/adapters/redis"
	"hotel_reservation/internal/app"
	"hotel_reservation/internal/domain"
	"hotel_reservation/internal/shared"
	mysqlrepo "hotel_reservation/internal/storage/mysql"
)

// ---------- helpers ----------

func migrationsDir() string {
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		return dir
	}
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := migrationsDir()
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest unavailable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=reservations"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Skipf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/reservations?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)
	return db
}

// stack wires the production adapters: MySQL repositories, redis cache and
// sessions (miniredis), the chi server, and the API client on top.
type stack struct {
	mr  *miniredis.Miniredis
	url string
}

func startStack(t *testing.T) stack {
	t.Helper()
	ctx := context.Background()
	db := startMySQL(t)
	st := mysqlrepo.NewStores(db)

	mr := miniredis.RunT(t)
	rdb := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rdb.Close() })
	cache := redisad.NewFromClient(rdb)

	seeder := app.NewSeedService(st.Catalog, st.Catalog, cache)
	catalog := shared.BuildCatalog()
	for _, h := range catalog.Hotels {
		if err := seeder.SeedHotel(ctx, catalog, h.ID); err != nil {
			t.Fatalf("seed hotel %d: %v", h.ID, err)
		}
	}

	auth := app.NewAuthService(st.Users, redisad.NewSessionStore(rdb), authn.Bcrypt{Cost: bcrypt.MinCost}, authn.NewJWT("e2e"), nil)
	srv := httpserver.New(10 * time.Second)
	srv.MountHandlers(&httpserver.Handlers{
		Auth:    auth,
		Catalog: app.NewCatalogService(st.Catalog, st.Catalog, cache, time.Minute, nil),
		Bookings: app.NewBookingService(app.BookingDeps{
			Auth:         auth,
			Hotels:       st.Catalog,
			Restaurants:  st.Catalog,
			Bookings:     st.Bookings,
			Reservations: st.Reservations,
			Payments:     st.Payments,
		}),
	})
	ts := httptest.NewServer(srv.Mux())
	t.Cleanup(ts.Close)
	return stack{mr: mr, url: ts.URL + "/api"}
}

func newClient(t *testing.T, url string) *apiclient.Client {
	t.Helper()
	cl, err := apiclient.New(url, 1000, &apiclient.MemoryTokens{})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return cl
}

// ---------- the tests ----------

func TestE2E_BookPayConfirm(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()
	cl := newClient(t, s.url)

	if _, err := cl.Signup(ctx, domain.SignupInput{Email: "Guest@Example.com", Password: "secret", Name: "Guest"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	hotels, err := cl.Hotels(ctx, domain.HotelsQuery{})
	if err != nil || len(hotels) != 10 {
		t.Fatalf("hotels: %d %v", len(hotels), err)
	}
	if !s.mr.Exists(app.HotelsKey(domain.HotelsQuery{})) {
		t.Fatalf("hotel list should be cached in redis")
	}

	rooms, err := cl.Rooms(ctx, 1)
	if err != nil || len(rooms) == 0 {
		t.Fatalf("rooms: %v", err)
	}
	room := rooms[0]

	sum, err := cl.BookRoom(ctx, apiclient.HotelBookingRequest{
		HotelID: 1, RoomID: room.ID, CheckIn: "2025-01-01", CheckOut: "2025-01-04", Guests: 2,
		ContactName: "Guest", ContactEmail: "guest@example.com", ContactPhone: "+1 555 0100",
	})
	if err != nil {
		t.Fatalf("book room: %v", err)
	}
	if sum.TotalPrice != room.Price*3 {
		t.Fatalf("total %.2f, want %.2f", sum.TotalPrice, room.Price*3)
	}

	p, err := cl.Pay(ctx, domain.PaymentInput{BookingID: &sum.BookingID})
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if p.Amount != sum.TotalPrice || p.Method != "card" || p.Status != domain.PaymentCompleted {
		t.Fatalf("payment: %+v", p)
	}

	conf, err := cl.BookingConfirmation(ctx, sum.BookingID)
	if err != nil {
		t.Fatalf("confirmation: %v", err)
	}
	if conf.Booking.Status != domain.StatusConfirmed || conf.Payment == nil || conf.Payment.TransactionID != p.TransactionID {
		t.Fatalf("confirmation: %+v", conf)
	}
	if conf.Booking.Location != "Paris, France" {
		t.Fatalf("location %q", conf.Booking.Location)
	}
}

func TestE2E_ConcurrentReservationsSingleWinner(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	const n = 6
	clients := make([]*apiclient.Client, n)
	for i := range clients {
		clients[i] = newClient(t, s.url)
		email := fmt.Sprintf("diner%d@example.com", i)
		if _, err := clients[i].Signup(ctx, domain.SignupInput{Email: email, Password: "pw", Name: "Diner"}); err != nil {
			t.Fatalf("signup %d: %v", i, err)
		}
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		wins      int
		conflicts int
	)
	for i, cl := range clients {
		wg.Add(1)
		go func(i int, cl *apiclient.Client) {
			defer wg.Done()
			// start times inside one two-hour window
			at := fmt.Sprintf("19:%02d", i*5)
			_, err := cl.BookTable(ctx, apiclient.ReservationRequest{RestaurantID: 1, TableID: 100, Date: "2025-06-01", Time: at, PartySize: 2})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, domain.ErrConflict):
				conflicts++
			default:
				t.Errorf("reservation %d: %v", i, err)
			}
		}(i, cl)
	}
	wg.Wait()

	if wins != 1 || conflicts != n-1 {
		t.Fatalf("wins=%d conflicts=%d", wins, conflicts)
	}
}

func TestE2E_ExpiredSessionClearsClient(t *testing.T) {
	s := startStack(t)
	ctx := context.Background()

	tokens := &apiclient.MemoryTokens{}
	cl, err := apiclient.New(s.url, 1000, tokens)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	fired := 0
	cl.OnUnauthorized = func() { fired++ }

	if _, err := cl.Signup(ctx, domain.SignupInput{Email: "late@example.com", Password: "pw", Name: "Late"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	// sessions live in redis only; dropping them invalidates every token
	s.mr.FlushAll()

	if _, err := cl.Me(ctx); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("me after flush: %v", err)
	}
	saved, _ := tokens.Load()
	if saved.Token != "" || fired != 1 {
		t.Fatalf("session should be cleared once: token=%q fired=%d", saved.Token, fired)
	}
}
