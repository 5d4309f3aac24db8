package payments

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/artvia/artvia-backend/pkg/db/models"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
)

type fakeSender struct {
	sent []string
	fail bool
}

func (f *fakeSender) Send(_ context.Context, to, _, _, _ string) error {
	if f.fail {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, to)
	return nil
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "artvia_test.db")
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := conn.AutoMigrate(&models.Artwork{}, &models.Payment{}, &models.PaymentArtwork{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return conn
}

func mustCreateArtwork(t *testing.T, db *gorm.DB) models.Artwork {
	t.Helper()
	artwork := models.Artwork{
		ID:          uuid.New(),
		ArtType:     "sculpture",
		Description: "test artwork",
		Price:       decimal.RequireFromString("900"),
		ArtistName:  "Repo Tester",
		Gmail:       "artist@example.com",
		Image:       "https://example.com/a.jpg",
	}
	if err := db.Create(&artwork).Error; err != nil {
		t.Fatalf("create artwork: %v", err)
	}
	return artwork
}

func newTestService(t *testing.T, sender *fakeSender) (Service, *gorm.DB) {
	t.Helper()
	db := openTestDB(t)
	params := ServiceParams{Repo: NewRepository(db)}
	if sender != nil {
		params.Email = sender
	}
	svc, err := NewService(params)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, db
}

func checkoutInput(artworkID string) CreatePaymentInput {
	return CreatePaymentInput{
		Name:          "Asha",
		Address:       "12 Gallery Lane",
		Email:         "buyer@example.com",
		ContactNumber: "0771234567",
		Image:         "https://example.com/slip.jpg",
		TotalAmount:   decimal.RequireFromString("900"),
		Artworks:      []ArtworkLineInput{{ArtworkID: artworkID, Quantity: 1}},
	}
}

func TestCreatePaymentPersistsSnapshotAndStartsPending(t *testing.T) {
	sender := &fakeSender{}
	svc, db := newTestService(t, sender)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, db)

	payment, err := svc.CreatePayment(ctx, checkoutInput(artwork.ID.String()))
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.PaymentStatus != models.PaymentStatusPending {
		t.Fatalf("new payments start pending, got %q", payment.PaymentStatus)
	}
	if len(payment.Artworks) != 1 || payment.Artworks[0].ArtworkID != artwork.ID {
		t.Fatalf("unexpected artwork lines: %+v", payment.Artworks)
	}
	if len(sender.sent) != 1 || sender.sent[0] != "buyer@example.com" {
		t.Fatalf("expected one confirmation email, got %v", sender.sent)
	}

	loaded, err := svc.GetPayment(ctx, payment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !loaded.TotalAmount.Equal(decimal.RequireFromString("900")) {
		t.Fatalf("total amount mismatch: %s", loaded.TotalAmount)
	}
}

func TestCreatePaymentRejectsUnknownArtwork(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.CreatePayment(context.Background(), checkoutInput(uuid.NewString()))
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreatePaymentRejectsMalformedArtworkID(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.CreatePayment(context.Background(), checkoutInput("not-an-id"))
	if coded := pkgerrors.As(err); coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePaymentSurvivesEmailFailure(t *testing.T) {
	sender := &fakeSender{fail: true}
	svc, db := newTestService(t, sender)
	artwork := mustCreateArtwork(t, db)

	payment, err := svc.CreatePayment(context.Background(), checkoutInput(artwork.ID.String()))
	if err != nil {
		t.Fatalf("email failure must not fail the payment: %v", err)
	}
	if payment.ID == uuid.Nil {
		t.Fatal("payment should still be created")
	}
}

func TestUpdateStatusValidatesAndPersists(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, db)

	payment, err := svc.CreatePayment(ctx, checkoutInput(artwork.ID.String()))
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, payment.ID, "refunded"); err == nil {
		t.Fatal("unknown status should be rejected")
	}

	updated, err := svc.UpdateStatus(ctx, payment.ID, models.PaymentStatusCompleted)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.PaymentStatus != models.PaymentStatusCompleted {
		t.Fatalf("status not updated: %q", updated.PaymentStatus)
	}
}

func TestUpdatePaymentKeepsBlankFieldsAndLines(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, db)

	payment, err := svc.CreatePayment(ctx, checkoutInput(artwork.ID.String()))
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	updated, err := svc.UpdatePayment(ctx, payment.ID, UpdatePaymentInput{Address: "7 New Street"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Address != "7 New Street" {
		t.Fatalf("address not updated: %q", updated.Address)
	}
	if updated.Name != payment.Name {
		t.Fatal("blank fields must keep stored values")
	}

	loaded, err := svc.GetPayment(ctx, payment.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(loaded.Artworks) != 1 {
		t.Fatalf("artwork lines must survive updates, got %d", len(loaded.Artworks))
	}
}

func TestDeletePayment(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, db)

	payment, err := svc.CreatePayment(ctx, checkoutInput(artwork.ID.String()))
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}

	if err := svc.DeletePayment(ctx, payment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.DeletePayment(ctx, payment.ID); err == nil {
		t.Fatal("second delete should report not found")
	}
	if _, err := svc.GetPayment(ctx, payment.ID); err == nil {
		t.Fatal("deleted payment should not load")
	}
}

func TestListPaymentsNewestFirst(t *testing.T) {
	svc, db := newTestService(t, nil)
	ctx := context.Background()
	artwork := mustCreateArtwork(t, db)

	first, err := svc.CreatePayment(ctx, checkoutInput(artwork.ID.String()))
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreatePayment(ctx, checkoutInput(artwork.ID.String()))
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	payments, err := svc.ListPayments(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(payments))
	}
	_ = first
	_ = second
}
