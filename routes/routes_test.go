package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jocoker/cse340/auth"
	"github.com/jocoker/cse340/config"
	"github.com/jocoker/cse340/middleware"
	"github.com/jocoker/cse340/models"
	"github.com/jocoker/cse340/store"
)

const strongPassword = "Str0ng!Passw0rd"

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t     *testing.T
	srv   *httptest.Server
	store *store.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := config.Config{
		Env:          config.EnvDevelopment,
		DatabaseURL:  ":memory:",
		TokenSecret:  []byte("routes-test-secret"),
		QueryTimeout: 5 * time.Second,
		MaxOpenConns: 1,
	}
	db, err := config.OpenDB(cfg)
	if err != nil {
		t.Fatalf("OpenDB() error: %v", err)
	}
	sqlDB, _ := db.DB()
	t.Cleanup(func() { _ = sqlDB.Close() })

	r, err := NewRouter(cfg, db)
	if err != nil {
		t.Fatalf("NewRouter() error: %v", err)
	}
	st, err := store.New(db, cfg.QueryTimeout)
	if err != nil {
		t.Fatalf("store.New() error: %v", err)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testApp{t: t, srv: srv, store: st}
}

// createAccount inserts an account directly, bypassing registration.
func (a *testApp) createAccount(email string, role models.Role) models.Account {
	a.t.Helper()
	digest, err := auth.NewBcryptHasher().Hash(strongPassword)
	if err != nil {
		a.t.Fatalf("Hash() error: %v", err)
	}
	acct := models.Account{FirstName: "Staff", LastName: "Member", Email: email, Password: digest, Type: role}
	if err := a.store.CreateAccount(context.Background(), &acct); err != nil {
		a.t.Fatalf("CreateAccount() error: %v", err)
	}
	return acct
}

func (a *testApp) createVehicle(class string) models.Vehicle {
	a.t.Helper()
	ctx := context.Background()
	c, err := a.store.AddClassification(ctx, class)
	if err != nil {
		a.t.Fatalf("AddClassification() error: %v", err)
	}
	v := models.Vehicle{
		ClassificationID: c.ID, Make: "Jeep", Model: "Wrangler", Description: "Rugged",
		Image: "/images/vehicles/wrangler.jpg", Thumbnail: "/images/vehicles/wrangler-tn.jpg",
		Price: 28045, Year: 2019, Miles: 41205, Color: "Yellow",
	}
	if err := a.store.AddVehicle(ctx, &v); err != nil {
		a.t.Fatalf("AddVehicle() error: %v", err)
	}
	return v
}

type browser struct {
	app    *testApp
	client *http.Client
}

func (a *testApp) browser() *browser {
	jar, err := cookiejar.New(nil)
	if err != nil {
		a.t.Fatalf("cookiejar.New() error: %v", err)
	}
	return &browser{app: a, client: &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}}
}

type page struct {
	status   int
	location string
	body     string
}

func (b *browser) do(req *http.Request) page {
	b.app.t.Helper()
	resp, err := b.client.Do(req)
	if err != nil {
		b.app.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return page{status: resp.StatusCode, location: resp.Header.Get("Location"), body: string(body)}
}

func (b *browser) get(path string) page {
	b.app.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, b.app.srv.URL+path, nil)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values, referer string) page {
	b.app.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, b.app.srv.URL+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if referer != "" {
		req.Header.Set("Referer", b.app.srv.URL+referer)
	}
	return b.do(req)
}

func (b *browser) cookie(name string) *http.Cookie {
	u, _ := url.Parse(b.app.srv.URL)
	for _, c := range b.client.Jar.Cookies(u) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (b *browser) login(email string) {
	b.app.t.Helper()
	p := b.post("/account/login", url.Values{"account_email": {email}, "account_password": {strongPassword}}, "")
	if p.status != http.StatusFound || p.location != "/account/" {
		b.app.t.Fatalf("login: expected redirect to /account/, got %d %q", p.status, p.location)
	}
}

func expectContains(t *testing.T, p page, parts ...string) {
	t.Helper()
	for _, part := range parts {
		if !strings.Contains(p.body, part) {
			t.Fatalf("expected body to contain %q (status %d)", part, p.status)
		}
	}
}

func registration(first, last, email, password string) url.Values {
	return url.Values{
		"account_firstname": {first},
		"account_lastname":  {last},
		"account_email":     {email},
		"account_password":  {password},
	}
}

func TestRegisterThenLogin(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()

	p := b.post("/account/register", registration("Jo", "Lee", "jo@example.com", strongPassword), "")
	if p.status != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", p.status)
	}
	expectContains(t, p, "registered Jo. Please log in.", `action="/account/login"`)

	b.login("jo@example.com")
	if b.cookie(middleware.SessionCookie) == nil {
		t.Fatalf("expected jwt cookie after login")
	}

	p = b.get("/account/")
	if p.status != http.StatusOK {
		t.Fatalf("account management: expected 200, got %d", p.status)
	}
	expectContains(t, p, "Welcome Jo")
	if strings.Contains(p.body, "Manage Inventory") {
		t.Fatalf("client must not see the inventory management link")
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()

	p := b.post("/account/register", registration("Jo", "L", "not-an-email", "short"), "")
	if p.status != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", p.status)
	}
	expectContains(t, p, "Please provide a last name.", "A valid email is required.", "Password does not meet requirements.")
	if strings.Contains(p.body, "short") {
		t.Fatalf("password must not be echoed back")
	}

	if p := b.post("/account/register", registration("Jo", "Lee", "jo@example.com", strongPassword), ""); p.status != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d", p.status)
	}
	p = b.post("/account/register", registration("Jo", "Again", "JO@example.com", strongPassword), "")
	if p.status != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d", p.status)
	}
	expectContains(t, p, "Email exists. Please log in or use different email")
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t)
	app.createAccount("jo@example.com", models.RoleClient)
	b := app.browser()

	for _, email := range []string{"jo@example.com", "nobody@example.com"} {
		p := b.post("/account/login", url.Values{"account_email": {email}, "account_password": {"Wr0ng!Password"}}, "")
		if p.status != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", email, p.status)
		}
		expectContains(t, p, "Please check your credentials and try again.")
		if b.cookie(middleware.SessionCookie) != nil {
			t.Fatalf("%s: no jwt cookie may be set", email)
		}
	}
}

func TestUnauthenticatedRedirectsWithNotice(t *testing.T) {
	app := newTestApp(t)
	b := app.browser()

	p := b.get("/inv/add-inventory")
	if p.status != http.StatusFound || p.location != "/account/login" {
		t.Fatalf("expected redirect to login, got %d %q", p.status, p.location)
	}
	p = b.get("/account/login")
	expectContains(t, p, "Please log in.")

	p = b.get("/account/login")
	if strings.Contains(p.body, "Please log in.") {
		t.Fatalf("notice must be shown once")
	}
}

func TestClientDeniedManagement(t *testing.T) {
	app := newTestApp(t)
	app.createAccount("client@example.com", models.RoleClient)
	b := app.browser()
	b.login("client@example.com")

	p := b.get("/inv/")
	if p.status != http.StatusFound || p.location != "/account/login" {
		t.Fatalf("expected redirect to login, got %d %q", p.status, p.location)
	}
	expectContains(t, b.get("/account/login"), "Access denied. Admin or Employee only.")
}

func TestTamperedCookieIsAnonymous(t *testing.T) {
	app := newTestApp(t)
	app.createAccount("client@example.com", models.RoleClient)
	b := app.browser()
	b.login("client@example.com")

	jwtCookie := b.cookie(middleware.SessionCookie)
	u, _ := url.Parse(app.srv.URL)
	b.client.Jar.SetCookies(u, []*http.Cookie{{Name: middleware.SessionCookie, Value: jwtCookie.Value + "x", Path: "/"}})

	p := b.get("/account/")
	if p.status != http.StatusFound || p.location != "/account/login" {
		t.Fatalf("expected redirect to login, got %d %q", p.status, p.location)
	}
	if b.cookie(middleware.SessionCookie) != nil {
		t.Fatalf("tampered cookie should have been cleared")
	}
}

func TestEmployeeManagesInventory(t *testing.T) {
	app := newTestApp(t)
	app.createAccount("staff@example.com", models.RoleEmployee)
	b := app.browser()
	b.login("staff@example.com")

	expectContains(t, b.get("/account/"), "Manage Inventory")
	if p := b.get("/inv/"); p.status != http.StatusOK {
		t.Fatalf("management: expected 200, got %d", p.status)
	}

	p := b.post("/inv/add-classification", url.Values{"classification_name": {"SUV"}}, "")
	if p.status != http.StatusCreated {
		t.Fatalf("add classification: expected 201, got %d", p.status)
	}
	expectContains(t, p, "Successfully added classification: SUV", `title="See our inventory of SUV vehicles">SUV</a>`)

	p = b.post("/inv/add-classification", url.Values{"classification_name": {"Sport Utility"}}, "")
	if p.status != http.StatusBadRequest {
		t.Fatalf("bad classification: expected 400, got %d", p.status)
	}
	expectContains(t, p, "Classification name must be alphanumeric")

	classes, _ := app.store.Classifications(context.Background())
	classID := strconv.FormatUint(uint64(classes[0].ID), 10)
	vehicle := url.Values{
		"classification_id": {classID},
		"inv_make":          {"Jeep"},
		"inv_model":         {"Wrangler"},
		"inv_description":   {"Rugged and ready"},
		"inv_image":         {"/images/vehicles/wrangler.jpg"},
		"inv_thumbnail":     {"/images/vehicles/wrangler-tn.jpg"},
		"inv_price":         {"28045"},
		"inv_year":          {"2019"},
		"inv_miles":         {"41205"},
		"inv_color":         {"Yellow"},
	}

	bad := url.Values{}
	for k, v := range vehicle {
		bad[k] = v
	}
	bad.Set("inv_year", "1800")
	bad.Set("inv_miles", "-4")
	p = b.post("/inv/add-inventory", bad, "")
	if p.status != http.StatusBadRequest {
		t.Fatalf("bad vehicle: expected 400, got %d", p.status)
	}
	expectContains(t, p, "Valid year is required.", "Miles must be 0 or more.", `value="Wrangler"`)

	p = b.post("/inv/add-inventory", vehicle, "")
	if p.status != http.StatusCreated {
		t.Fatalf("add vehicle: expected 201, got %d", p.status)
	}
	expectContains(t, p, "Successfully added 2019 Jeep Wrangler.")

	vehicles, _ := app.store.VehiclesByClassification(context.Background(), classes[0].ID)
	if len(vehicles) != 1 {
		t.Fatalf("expected one stored vehicle, got %d", len(vehicles))
	}
	invID := strconv.FormatUint(uint64(vehicles[0].ID), 10)

	p = b.get("/inv/edit/" + invID)
	expectContains(t, p, "Edit Jeep Wrangler", `value="41205"`)

	vehicle.Set("inv_id", invID)
	vehicle.Set("inv_color", "Black")
	p = b.post("/inv/update", vehicle, "")
	if p.status != http.StatusFound || p.location != "/inv/" {
		t.Fatalf("update: expected redirect to /inv/, got %d %q", p.status, p.location)
	}
	expectContains(t, b.get("/inv/"), "The Jeep Wrangler was successfully updated.")

	expectContains(t, b.get("/inv/delete/"+invID), "Delete Jeep Wrangler")
	p = b.post("/inv/delete", url.Values{"inv_id": {invID}}, "")
	if p.status != http.StatusFound || p.location != "/inv/" {
		t.Fatalf("delete: expected redirect to /inv/, got %d %q", p.status, p.location)
	}
	expectContains(t, b.get("/inv/"), "Vehicle successfully deleted.")

	p = b.post("/inv/delete", url.Values{"inv_id": {invID}}, "")
	if p.location != "/inv/delete/"+invID {
		t.Fatalf("second delete: expected redirect back to confirm page, got %q", p.location)
	}
}

func TestPublicInventoryPages(t *testing.T) {
	app := newTestApp(t)
	v := app.createVehicle("Truck")
	b := app.browser()
	classID := strconv.FormatUint(uint64(v.ClassificationID), 10)
	invID := strconv.FormatUint(uint64(v.ID), 10)

	expectContains(t, b.get("/inv/type/"+classID), "Truck vehicles", "$28,045")
	p := b.get("/inv/detail/" + invID)
	expectContains(t, p, "2019 Jeep Wrangler", "41,205 miles")
	if strings.Contains(p.body, "Save to My Vehicles") {
		t.Fatalf("anonymous visitors must not see the save button")
	}

	p = b.get("/inv/getInventory/" + classID)
	if p.status != http.StatusOK {
		t.Fatalf("inventory json: expected 200, got %d", p.status)
	}
	var items []map[string]any
	if err := json.Unmarshal([]byte(p.body), &items); err != nil {
		t.Fatalf("decode inventory json: %v", err)
	}
	if len(items) != 1 || items[0]["inv_make"] != "Jeep" {
		t.Fatalf("unexpected inventory json: %v", items)
	}
	if p := b.get("/inv/getInventory/999"); p.status != http.StatusNotFound {
		t.Fatalf("empty inventory json: expected 404, got %d", p.status)
	}

	if p := b.get("/inv/detail/999"); p.status != http.StatusNotFound {
		t.Fatalf("missing vehicle: expected 404, got %d", p.status)
	}
	if p := b.get("/no/such/page"); p.status != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", p.status)
	}
	p = b.get("/inv/error-test")
	if p.status != http.StatusInternalServerError {
		t.Fatalf("error-test: expected 500, got %d", p.status)
	}
	expectContains(t, p, "Oh no! There was a crash.")

	if p := b.get("/css/styles.css"); p.status != http.StatusOK {
		t.Fatalf("static css: expected 200, got %d", p.status)
	}
}

func TestFavorites(t *testing.T) {
	app := newTestApp(t)
	v := app.createVehicle("Sedan")
	app.createAccount("client@example.com", models.RoleClient)
	b := app.browser()
	invID := strconv.FormatUint(uint64(v.ID), 10)
	detail := "/inv/detail/" + invID

	if p := b.post("/favorite", url.Values{"inv_id": {invID}}, detail); p.location != "/account/login" {
		t.Fatalf("anonymous save: expected login redirect, got %q", p.location)
	}

	b.login("client@example.com")
	expectContains(t, b.get(detail), "Save to My Vehicles")

	for i := 0; i < 2; i++ {
		p := b.post("/favorite", url.Values{"inv_id": {invID}}, detail)
		if p.status != http.StatusFound || p.location != detail {
			t.Fatalf("save %d: expected redirect back to %s, got %d %q", i+1, detail, p.status, p.location)
		}
	}
	p := b.get(detail)
	expectContains(t, p, "Saved to your vehicles.", "Remove from My Vehicles")

	p = b.get("/account/favorites")
	if strings.Count(p.body, `action="/favorite/remove"`) != 1 {
		t.Fatalf("expected exactly one saved vehicle")
	}

	if p := b.post("/favorite", url.Values{"inv_id": {"999"}}, "https://evil.example/"); p.location != "/account/favorites" {
		t.Fatalf("foreign referer must fall back, got %q", p.location)
	}
	expectContains(t, b.get("/account/favorites"), "Vehicle not found.")

	for i := 0; i < 2; i++ {
		p := b.post("/favorite/remove", url.Values{"inv_id": {invID}}, "/account/favorites")
		if p.status != http.StatusFound {
			t.Fatalf("remove %d: expected redirect, got %d", i+1, p.status)
		}
	}
	p = b.get("/account/favorites")
	expectContains(t, p, "Removed from your saved vehicles.", "You have not saved any vehicles yet.")
}

func TestAccountUpdateAndLogout(t *testing.T) {
	app := newTestApp(t)
	acct := app.createAccount("client@example.com", models.RoleClient)
	other := app.createAccount("other@example.com", models.RoleClient)
	b := app.browser()
	b.login("client@example.com")
	id := strconv.FormatUint(uint64(acct.ID), 10)

	expectContains(t, b.get("/account/update/"+id), `value="client@example.com"`)
	if p := b.get("/account/update/" + strconv.FormatUint(uint64(other.ID), 10)); p.location != "/account/" {
		t.Fatalf("foreign account id: expected redirect to /account/, got %q", p.location)
	}
	b.get("/account/")

	p := b.post("/account/update", url.Values{
		"account_id":        {id},
		"account_firstname": {"Joanne"},
		"account_lastname":  {"Lee"},
		"account_email":     {"other@example.com"},
	}, "")
	if p.status != http.StatusBadRequest {
		t.Fatalf("taken email: expected 400, got %d", p.status)
	}

	oldToken := b.cookie(middleware.SessionCookie).Value
	p = b.post("/account/update", url.Values{
		"account_id":        {id},
		"account_firstname": {"Joanne"},
		"account_lastname":  {"Lee"},
		"account_email":     {"joanne@example.com"},
	}, "")
	if p.status != http.StatusFound || p.location != "/account/" {
		t.Fatalf("update: expected redirect to /account/, got %d %q", p.status, p.location)
	}
	if b.cookie(middleware.SessionCookie).Value == oldToken {
		t.Fatalf("expected a re-issued session token")
	}
	expectContains(t, b.get("/account/"), "Account information updated successfully.", "Welcome Joanne", "joanne@example.com")

	p = b.post("/account/update-password", url.Values{"account_id": {id}, "account_password": {"weak"}}, "")
	if p.status != http.StatusBadRequest {
		t.Fatalf("weak password: expected 400, got %d", p.status)
	}
	p = b.post("/account/update-password", url.Values{"account_id": {id}, "account_password": {"N3w!Passw0rd-ok"}}, "")
	if p.status != http.StatusFound {
		t.Fatalf("password change: expected redirect, got %d", p.status)
	}

	p = b.get("/account/logout")
	if p.status != http.StatusFound || p.location != "/" {
		t.Fatalf("logout: expected redirect to /, got %d %q", p.status, p.location)
	}
	if b.cookie(middleware.SessionCookie) != nil {
		t.Fatalf("logout must clear the jwt cookie")
	}
	expectContains(t, b.get("/"), "You have successfully logged out.")

	p = b.post("/account/login", url.Values{"account_email": {"joanne@example.com"}, "account_password": {"N3w!Passw0rd-ok"}}, "")
	if p.status != http.StatusFound {
		t.Fatalf("login with new password: expected redirect, got %d", p.status)
	}
}

func TestDeleteVehicleDropsFavorites(t *testing.T) {
	app := newTestApp(t)
	v := app.createVehicle("Custom")
	client := app.createAccount("client@example.com", models.RoleClient)
	app.createAccount("staff@example.com", models.RoleAdmin)
	if err := app.store.SaveFavorite(context.Background(), client.ID, v.ID); err != nil {
		t.Fatalf("SaveFavorite() error: %v", err)
	}

	b := app.browser()
	b.login("staff@example.com")
	p := b.post("/inv/delete", url.Values{"inv_id": {strconv.FormatUint(uint64(v.ID), 10)}}, "")
	if p.location != "/inv/" {
		t.Fatalf("delete: expected redirect to /inv/, got %q", p.location)
	}
	favs, err := app.store.FavoritesByAccount(context.Background(), client.ID)
	if err != nil || len(favs) != 0 {
		t.Fatalf("expected favorites removed with the vehicle, got %d (%v)", len(favs), err)
	}
}
