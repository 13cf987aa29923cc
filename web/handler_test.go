package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"restaurant-sync/engine"
	"restaurant-sync/models"
	"restaurant-sync/realtime"
	"restaurant-sync/services"

	"github.com/gorilla/websocket"
)

// stubStore is a minimal in-memory engine.Store for handler tests.
type stubStore struct {
	mu       sync.Mutex
	menu     map[int64]models.MenuItem
	orders   map[int64]models.Order
	menuSeq  int64
	orderSeq int64
}

func newStubStore() *stubStore {
	return &stubStore{menu: map[int64]models.MenuItem{}, orders: map[int64]models.Order{}}
}

func (s *stubStore) AddMenuItem(_ context.Context, name string, price float64) (*models.MenuItem, error) {
	if name == "" {
		return nil, &services.ValidationError{Field: "name", Reason: "is required"}
	}
	if price < 0 {
		return nil, &services.ValidationError{Field: "price", Reason: "must be >= 0"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.menuSeq++
	item := models.MenuItem{ID: s.menuSeq, Name: name, Price: price}
	s.menu[item.ID] = item
	return &item, nil
}

func (s *stubStore) GetMenuItem(_ context.Context, id int64) (*models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menu[id]
	if !ok {
		return nil, &services.StorageError{Op: "select", Collection: "menu", Err: errors.New("no rows")}
	}
	return &item, nil
}

func (s *stubStore) DeleteMenuItem(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.menu, id)
	return nil
}

func (s *stubStore) ListMenu(_ context.Context) ([]models.MenuItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := []models.MenuItem{}
	for _, item := range s.menu {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}

func (s *stubStore) SubmitOrder(_ context.Context, in models.SubmitOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, &services.ValidationError{Field: "items", Reason: "at least one line item is required"}
	}
	for _, qty := range in.Items {
		if qty <= 0 {
			return nil, &services.ValidationError{Field: "items", Reason: "quantity must be > 0"}
		}
	}
	if in.TotalPrice < 0 {
		return nil, &services.ValidationError{Field: "totalPrice", Reason: "must be >= 0"}
	}
	itemsJSON, err := services.EncodeLineItems(in.Items)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orderSeq++
	o := models.Order{
		ID:          s.orderSeq,
		CreatedAt:   time.Now(),
		TableNumber: in.TableNumber,
		Items:       itemsJSON,
		TotalPrice:  in.TotalPrice,
		Status:      models.OrderStatusPending,
	}
	s.orders[o.ID] = o
	return &o, nil
}

func (s *stubStore) GetOrder(_ context.Context, id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, &services.StorageError{Op: "select", Collection: "orders", Err: errors.New("no rows")}
	}
	return &o, nil
}

func (s *stubStore) UpdateOrderStatus(_ context.Context, id int64, status string) error {
	if !services.ValidOrderStatus(status) {
		return &services.ValidationError{Field: "status", Reason: "must be pending or completed"}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.orders[id]; ok {
		o.Status = status
		s.orders[id] = o
	}
	return nil
}

func (s *stubStore) DeleteOrder(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.orders, id)
	return nil
}

func (s *stubStore) ListOrders(_ context.Context, sortDir string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []models.Order{}
	for _, o := range s.orders {
		orders = append(orders, o)
	}
	asc := sortDir == services.SortAsc
	sort.Slice(orders, func(i, j int) bool {
		if asc {
			return orders[i].ID < orders[j].ID
		}
		return orders[i].ID > orders[j].ID
	})
	return orders, nil
}

type stubBillSender struct{ sent []string }

func (s *stubBillSender) SendBill(to, _ string) error {
	s.sent = append(s.sent, to)
	return nil
}

func newTestServer(t *testing.T, mailer BillSender) *httptest.Server {
	t.Helper()
	eng := engine.New(newStubStore(), realtime.NewHub())
	srv := httptest.NewServer(NewRouter(NewHandler(eng, mailer)))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestAddFoodItemAndMenuListing(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/admin/add-food-item", `{"name":"Pizza","price":750}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	item := decode[models.MenuItem](t, resp)
	if item.ID != 1 || item.Name != "Pizza" || item.Price != 750 {
		t.Fatalf("created item = %+v", item)
	}

	listResp, err := http.Get(srv.URL + "/menu")
	if err != nil {
		t.Fatal(err)
	}
	defer listResp.Body.Close()
	menu := decode[[]models.MenuItem](t, listResp)
	if len(menu) != 1 || menu[0].Name != "Pizza" {
		t.Errorf("menu = %+v", menu)
	}
}

func TestAddFoodItemRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, nil)
	tests := []struct {
		body string
		want int
	}{
		{`{"name":"","price":100}`, http.StatusBadRequest},
		{`{"name":"Pizza","price":-1}`, http.StatusBadRequest},
		{`{"name":"Pizza","price":"cheap"}`, http.StatusBadRequest},
		{`not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		resp := postJSON(t, srv.URL+"/admin/add-food-item", tt.body)
		if resp.StatusCode != tt.want {
			t.Errorf("body %s: status = %d, want %d", tt.body, resp.StatusCode, tt.want)
		}
	}
}

func TestSubmitOrderEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)

	resp := postJSON(t, srv.URL+"/submit-order",
		`{"tableNumber":"5","items":{"Pizza":2},"totalPrice":1500}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	o := decode[models.Order](t, resp)
	if o.TableNumber != "5" || o.Items != `{"Pizza":2}` || o.Status != models.OrderStatusPending {
		t.Fatalf("order = %+v", o)
	}

	bad := postJSON(t, srv.URL+"/submit-order", `{"tableNumber":"5","items":{},"totalPrice":100}`)
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("empty items: status = %d", bad.StatusCode)
	}
	e := decode[errorResponse](t, bad)
	if e.Error != "validation_error" {
		t.Errorf("error code = %q", e.Error)
	}
}

func TestOrdersListingSort(t *testing.T) {
	srv := newTestServer(t, nil)
	for i := 0; i < 3; i++ {
		postJSON(t, srv.URL+"/submit-order", `{"tableNumber":"1","items":{"Tea":1},"totalPrice":200}`)
	}

	get := func(query string) []models.Order {
		resp, err := http.Get(srv.URL + "/admin/orders" + query)
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		return decode[[]models.Order](t, resp)
	}

	if got := get(""); got[0].ID != 3 {
		t.Errorf("default sort should be descending, first id = %d", got[0].ID)
	}
	if got := get("?sort=asc"); got[0].ID != 1 {
		t.Errorf("ascending sort, first id = %d", got[0].ID)
	}
}

func TestUpdateStatusEndpoint(t *testing.T) {
	srv := newTestServer(t, nil)
	postJSON(t, srv.URL+"/submit-order", `{"tableNumber":"5","items":{"Pizza":2},"totalPrice":1500}`)

	resp := postJSON(t, srv.URL+"/admin/update-status", `{"id":1,"status":"completed"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	bad := postJSON(t, srv.URL+"/admin/update-status", `{"id":1,"status":"served"}`)
	if bad.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown status: status = %d", bad.StatusCode)
	}

	listResp, err := http.Get(srv.URL + "/admin/orders")
	if err != nil {
		t.Fatalf("GET /admin/orders: %v", err)
	}
	defer listResp.Body.Close()
	orders := decode[[]models.Order](t, listResp)
	if orders[0].Status != models.OrderStatusCompleted {
		t.Errorf("order status = %q", orders[0].Status)
	}
}

func TestDeleteEndpointsAreIdempotent(t *testing.T) {
	srv := newTestServer(t, nil)
	postJSON(t, srv.URL+"/submit-order", `{"tableNumber":"5","items":{"Pizza":2},"totalPrice":1500}`)

	for i := 0; i < 2; i++ {
		resp := postJSON(t, srv.URL+"/admin/delete-order", `{"id":1}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("delete attempt %d: status = %d", i+1, resp.StatusCode)
		}
	}
	listResp, err := http.Get(srv.URL + "/admin/orders")
	if err != nil {
		t.Fatalf("GET /admin/orders: %v", err)
	}
	defer listResp.Body.Close()
	if orders := decode[[]models.Order](t, listResp); len(orders) != 0 {
		t.Errorf("orders = %+v after delete", orders)
	}

	if resp := postJSON(t, srv.URL+"/admin/delete-food-item", `{"id":42}`); resp.StatusCode != http.StatusOK {
		t.Errorf("deleting absent food item: status = %d", resp.StatusCode)
	}
}

func TestSendBill(t *testing.T) {
	sender := &stubBillSender{}
	srv := newTestServer(t, sender)

	resp := postJSON(t, srv.URL+"/send-bill", `{"email":"guest@example.com","orderDetails":"Pizza x2"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "guest@example.com" {
		t.Errorf("sent = %v", sender.sent)
	}

	if resp := postJSON(t, srv.URL+"/send-bill", `{"orderDetails":"Pizza x2"}`); resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing email: status = %d", resp.StatusCode)
	}

	noMail := newTestServer(t, nil)
	if resp := postJSON(t, noMail.URL+"/send-bill", `{"email":"x@example.com"}`); resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("mail disabled: status = %d", resp.StatusCode)
	}
}

func TestWebSocketSnapshotThenLiveEvents(t *testing.T) {
	srv := newTestServer(t, nil)
	postJSON(t, srv.URL+"/admin/add-food-item", `{"name":"Pizza","price":750}`)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()

	read := func() realtime.Event {
		t.Helper()
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var ev realtime.Event
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatal(err)
		}
		return ev
	}

	if ev := read(); ev.Name != engine.EventInitialMenu {
		t.Fatalf("first frame = %q, want %q", ev.Name, engine.EventInitialMenu)
	}
	if ev := read(); ev.Name != engine.EventInitialOrders {
		t.Fatalf("second frame = %q, want %q", ev.Name, engine.EventInitialOrders)
	}

	postJSON(t, srv.URL+"/submit-order", `{"tableNumber":"5","items":{"Pizza":2},"totalPrice":1500}`)
	ev := read()
	if ev.Name != engine.EventNewOrder {
		t.Fatalf("live frame = %q, want %q", ev.Name, engine.EventNewOrder)
	}
	payload, _ := json.Marshal(ev.Payload)
	var o models.Order
	if err := json.Unmarshal(payload, &o); err != nil {
		t.Fatal(err)
	}
	if o.TableNumber != "5" || o.Items != `{"Pizza":2}` || o.TotalPrice != 1500 {
		t.Errorf("order payload = %+v", o)
	}
}
