package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bookbid/bookbid/config"
	"github.com/bookbid/bookbid/database"
	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
)

// Initialize the logger and config
func init() {
	config.Opts = config.GetDefaultOptions()
	log.Logger = log.NewLogger()
}

func createTestStore(t *testing.T) *Store {
	t.Helper()
	filename := filepath.Join(t.TempDir(), "bookbid_test.db")
	db, err := sql.Open("sqlite", filename)
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
		os.Remove(filename)
	})
	if err := database.ApplySchema(db); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
	return NewStore(db)
}

func createTestUser(t *testing.T, s *Store, email string, books []string) *model.User {
	t.Helper()
	user, err := s.CreateUser(&model.User{
		Name:         "Test " + email,
		Email:        email,
		City:         "Springfield",
		PasswordHash: "hash",
		Books:        books,
	})
	if err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

func TestCreateAndGetUser(t *testing.T) {
	s := createTestStore(t)
	created := createTestUser(t, s, "a@example.com", []string{"X"})

	if created.ID == 0 {
		t.Error("Expected assigned user id")
	}

	email := "a@example.com"
	user, err := s.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	if user == nil {
		t.Fatal("Expected user, got nil")
	}
	if !reflect.DeepEqual(user.Books, []string{"X"}) {
		t.Errorf("Books = %v, want [X]", user.Books)
	}

	missing := "nobody@example.com"
	user, err = s.GetUser(&model.FindUser{Email: &missing})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if user != nil {
		t.Error("Expected nil for unknown email")
	}
}

func TestDuplicateEmailRejected(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "a@example.com", nil)

	_, err := s.CreateUser(&model.User{
		Name:         "Dup",
		Email:        "a@example.com",
		PasswordHash: "hash",
	})
	if err == nil {
		t.Error("Expected unique constraint error for duplicate email")
	}
}

func TestLegacyBookFormsNormalized(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "a@example.com", nil)

	// Simulate a legacy row holding mixed title representations.
	legacy := `["Plain Title", {"title": "Object Title"}, "{'title': 'Repr Title'}"]`
	if _, err := s.db.Exec(`UPDATE user SET books = ? WHERE email = ?`, legacy, "a@example.com"); err != nil {
		t.Fatalf("Failed to write legacy row: %v", err)
	}
	s.UserCache.Delete("a@example.com")

	email := "a@example.com"
	user, err := s.GetUser(&model.FindUser{Email: &email})
	if err != nil {
		t.Fatalf("Failed to get user: %v", err)
	}
	want := []string{"Plain Title", "Object Title", "Repr Title"}
	if !reflect.DeepEqual(user.Books, want) {
		t.Errorf("Books = %v, want %v", user.Books, want)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "a@example.com", nil)

	city := "Shelbyville"
	updated, err := s.UpdateUser("a@example.com", &model.UpdateUser{City: &city})
	if err != nil {
		t.Fatalf("Failed to update user: %v", err)
	}
	if updated.City != "Shelbyville" {
		t.Errorf("City = %q, want Shelbyville", updated.City)
	}
	if updated.Name != "Test a@example.com" {
		t.Errorf("Untouched field changed: %q", updated.Name)
	}

	// Empty update returns the current record.
	same, err := s.UpdateUser("a@example.com", &model.UpdateUser{})
	if err != nil {
		t.Fatalf("Failed on empty update: %v", err)
	}
	if same.City != "Shelbyville" {
		t.Errorf("Empty update lost state: %q", same.City)
	}
}

func TestSupportsRequestOrdering(t *testing.T) {
	s := createTestStore(t)
	if !s.SupportsRequestOrdering() {
		t.Error("Schema carries the created_ts index, capability should be true")
	}
}

func TestOrderingCapabilityWithoutIndex(t *testing.T) {
	s := createTestStore(t)
	if _, err := s.db.Exec(`DROP INDEX idx_exchange_request_created_ts`); err != nil {
		t.Fatalf("Failed to drop index: %v", err)
	}
	if s.SupportsRequestOrdering() {
		t.Error("Capability should be false without the index")
	}

	// Listing still works unordered.
	createTestUser(t, s, "a@example.com", []string{"X"})
	createTestUser(t, s, "b@example.com", []string{"Y"})
	if _, err := s.CreateRequest(&model.ExchangeRequest{
		FromUser: "a@example.com", ToUser: "b@example.com",
		RequestedBook: "Y", OfferedBook: "X",
	}); err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	to := "b@example.com"
	list, err := s.ListRequests(&model.FindRequest{ToUser: &to})
	if err != nil {
		t.Fatalf("Failed to list requests: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("Expected 1 request, got %d", len(list))
	}
}

func TestCreateAndListRequests(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "a@example.com", []string{"X"})
	createTestUser(t, s, "b@example.com", []string{"Y"})

	req, err := s.CreateRequest(&model.ExchangeRequest{
		FromUser: "a@example.com", ToUser: "b@example.com",
		RequestedBook: "Y", OfferedBook: "X",
	})
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}
	if req.ID == "" {
		t.Error("Expected assigned request id")
	}
	if req.Status != model.StatusPending {
		t.Errorf("Status = %q, want pending", req.Status)
	}

	got, err := s.GetRequest(req.ID)
	if err != nil {
		t.Fatalf("Failed to get request: %v", err)
	}
	if got == nil || got.RequestedBook != "Y" {
		t.Errorf("GetRequest = %+v", got)
	}

	from := "a@example.com"
	outgoing, err := s.ListRequests(&model.FindRequest{FromUser: &from})
	if err != nil {
		t.Fatalf("Failed to list outgoing: %v", err)
	}
	if len(outgoing) != 1 {
		t.Errorf("Expected 1 outgoing request, got %d", len(outgoing))
	}
}

func TestAcceptSwap(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "a@example.com", []string{"X"})
	createTestUser(t, s, "b@example.com", []string{"Y"})

	req, err := s.CreateRequest(&model.ExchangeRequest{
		FromUser: "a@example.com", ToUser: "b@example.com",
		RequestedBook: "Y", OfferedBook: "X",
	})
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	if err := s.AcceptSwap(req.ID, "b@example.com"); err != nil {
		t.Fatalf("Failed to accept: %v", err)
	}

	emailA, emailB := "a@example.com", "b@example.com"
	a, _ := s.GetUser(&model.FindUser{Email: &emailA})
	b, _ := s.GetUser(&model.FindUser{Email: &emailB})
	if !reflect.DeepEqual(a.Books, []string{"Y"}) {
		t.Errorf("Requester books = %v, want [Y]", a.Books)
	}
	if !reflect.DeepEqual(b.Books, []string{"X"}) {
		t.Errorf("Accepter books = %v, want [X]", b.Books)
	}

	accepted, _ := s.GetRequest(req.ID)
	if accepted.Status != model.StatusAccepted {
		t.Errorf("Status = %q, want accepted", accepted.Status)
	}
}

func TestAcceptForbiddenForNonRecipient(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "a@example.com", []string{"X"})
	createTestUser(t, s, "b@example.com", []string{"Y"})

	req, _ := s.CreateRequest(&model.ExchangeRequest{
		FromUser: "a@example.com", ToUser: "b@example.com",
		RequestedBook: "Y", OfferedBook: "X",
	})

	if err := s.AcceptSwap(req.ID, "a@example.com"); err != model.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
	if err := s.AcceptSwap(req.ID, "c@example.com"); err != model.ErrForbidden {
		t.Errorf("Expected ErrForbidden, got %v", err)
	}
}

func TestAcceptNotFound(t *testing.T) {
	s := createTestStore(t)
	if err := s.AcceptSwap("no-such-id", "b@example.com"); err != model.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAcceptIdempotent(t *testing.T) {
	s := createTestStore(t)
	createTestUser(t, s, "a@example.com", []string{"X"})
	createTestUser(t, s, "b@example.com", []string{"Y"})

	req, _ := s.CreateRequest(&model.ExchangeRequest{
		FromUser: "a@example.com", ToUser: "b@example.com",
		RequestedBook: "Y", OfferedBook: "X",
	})

	if err := s.AcceptSwap(req.ID, "b@example.com"); err != nil {
		t.Fatalf("First accept failed: %v", err)
	}
	if err := s.AcceptSwap(req.ID, "b@example.com"); err != nil {
		t.Fatalf("Second accept should be a no-op, got %v", err)
	}

	// The swap must not run twice.
	emailA := "a@example.com"
	a, _ := s.GetUser(&model.FindUser{Email: &emailA})
	if !reflect.DeepEqual(a.Books, []string{"Y"}) {
		t.Errorf("Requester books = %v, want [Y]", a.Books)
	}
}

func TestAcceptSkipsMissingBook(t *testing.T) {
	s := createTestStore(t)
	// The offered book was already given away before the accept.
	createTestUser(t, s, "a@example.com", []string{"Other"})
	createTestUser(t, s, "b@example.com", []string{"Y"})

	req, _ := s.CreateRequest(&model.ExchangeRequest{
		FromUser: "a@example.com", ToUser: "b@example.com",
		RequestedBook: "Y", OfferedBook: "X",
	})

	if err := s.AcceptSwap(req.ID, "b@example.com"); err != nil {
		t.Fatalf("Accept should succeed despite the missing book: %v", err)
	}

	emailA, emailB := "a@example.com", "b@example.com"
	a, _ := s.GetUser(&model.FindUser{Email: &emailA})
	b, _ := s.GetUser(&model.FindUser{Email: &emailB})
	// Requester side skipped, accepter side applied.
	if !reflect.DeepEqual(a.Books, []string{"Other"}) {
		t.Errorf("Requester books = %v, want [Other]", a.Books)
	}
	if !reflect.DeepEqual(b.Books, []string{"X"}) {
		t.Errorf("Accepter books = %v, want [X]", b.Books)
	}

	accepted, _ := s.GetRequest(req.ID)
	if accepted.Status != model.StatusAccepted {
		t.Errorf("Status = %q, want accepted", accepted.Status)
	}
}
