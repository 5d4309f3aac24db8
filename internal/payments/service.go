package payments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/artvia/artvia-backend/pkg/db/models"
	"github.com/artvia/artvia-backend/pkg/email"
	pkgerrors "github.com/artvia/artvia-backend/pkg/errors"
	"github.com/artvia/artvia-backend/pkg/logger"
)

// ServiceParams groups dependencies for the payment service.
type ServiceParams struct {
	Repo   *Repository
	Email  email.Sender
	Logger *logger.Logger
}

// Service exposes the checkout and payment administration operations.
type Service interface {
	CreatePayment(ctx context.Context, input CreatePaymentInput) (models.Payment, error)
	ListPayments(ctx context.Context) ([]models.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (models.Payment, error)
	UpdatePayment(ctx context.Context, id uuid.UUID, input UpdatePaymentInput) (models.Payment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (models.Payment, error)
	DeletePayment(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo  *Repository
	email email.Sender
	logg  *logger.Logger
}

// NewService builds a payment service. The email sender is optional;
// without one, confirmations are simply skipped.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment repo is required")
	}
	return &service{
		repo:  params.Repo,
		email: params.Email,
		logg:  params.Logger,
	}, nil
}

// CreatePayment records a checkout submission. Every referenced artwork
// must exist; the confirmation email is best-effort and never fails the
// payment.
func (s *service) CreatePayment(ctx context.Context, input CreatePaymentInput) (models.Payment, error) {
	if input.TotalAmount.IsNegative() {
		return models.Payment{}, pkgerrors.New(pkgerrors.CodeValidation, "total amount must not be negative")
	}

	lines := make([]models.PaymentArtwork, 0, len(input.Artworks))
	ids := make([]uuid.UUID, 0, len(input.Artworks))
	for _, line := range input.Artworks {
		artworkID, err := uuid.Parse(line.ArtworkID)
		if err != nil {
			return models.Payment{}, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is not a valid id")
		}
		ids = append(ids, artworkID)
		lines = append(lines, models.PaymentArtwork{
			ID:        uuid.New(),
			ArtworkID: artworkID,
			Quantity:  line.Quantity,
		})
	}

	count, err := s.repo.CountArtworks(ctx, ids)
	if err != nil {
		return models.Payment{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify artworks")
	}
	if count != int64(len(uniqueIDs(ids))) {
		return models.Payment{}, pkgerrors.New(pkgerrors.CodeNotFound, "one or more artworks do not exist")
	}

	payment := models.Payment{
		ID:            uuid.New(),
		Name:          input.Name,
		Address:       input.Address,
		Email:         input.Email,
		ContactNumber: input.ContactNumber,
		Image:         input.Image,
		TotalAmount:   input.TotalAmount,
		PaymentStatus: models.PaymentStatusPending,
		Artworks:      lines,
	}
	if err := s.repo.Create(ctx, &payment); err != nil {
		return models.Payment{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
	}

	s.sendConfirmation(ctx, payment)
	return payment, nil
}

func (s *service) sendConfirmation(ctx context.Context, payment models.Payment) {
	if s.email == nil {
		return
	}

	summaryLines := make([]email.PaymentLine, 0, len(payment.Artworks))
	for _, line := range payment.Artworks {
		summaryLines = append(summaryLines, email.PaymentLine{
			ArtworkID: line.ArtworkID.String(),
			Quantity:  line.Quantity,
		})
	}
	plain, html := email.BuildPaymentConfirmation(payment.Email, email.PaymentSummary{
		Name:        payment.Name,
		TotalAmount: payment.TotalAmount,
		Artworks:    summaryLines,
		Address:     payment.Address,
		Contact:     payment.ContactNumber,
	})

	if err := s.email.Send(ctx, payment.Email, email.PaymentConfirmationSubject, plain, html); err != nil && s.logg != nil {
		s.logg.Error(ctx, "payment confirmation email failed", err)
	}
}

// ListPayments returns all payments, newest first.
func (s *service) ListPayments(ctx context.Context) ([]models.Payment, error) {
	payments, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return payments, nil
}

// GetPayment loads one payment.
func (s *service) GetPayment(ctx context.Context, id uuid.UUID) (models.Payment, error) {
	payment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Payment{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "payment not found")
		}
		return models.Payment{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

// UpdatePayment applies a partial update of buyer details.
func (s *service) UpdatePayment(ctx context.Context, id uuid.UUID, input UpdatePaymentInput) (models.Payment, error) {
	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}

	if input.Name != "" {
		payment.Name = input.Name
	}
	if input.Address != "" {
		payment.Address = input.Address
	}
	if input.Email != "" {
		payment.Email = input.Email
	}
	if input.ContactNumber != "" {
		payment.ContactNumber = input.ContactNumber
	}
	if input.Image != "" {
		payment.Image = input.Image
	}

	if err := s.repo.Save(ctx, &payment); err != nil {
		return models.Payment{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment")
	}
	return payment, nil
}

// UpdateStatus moves the payment through its lifecycle.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (models.Payment, error) {
	if !models.ValidPaymentStatus(status) {
		return models.Payment{}, pkgerrors.New(pkgerrors.CodeValidation, "payment status must be pending, completed or failed")
	}

	payment, err := s.GetPayment(ctx, id)
	if err != nil {
		return models.Payment{}, err
	}
	payment.PaymentStatus = status
	if err := s.repo.Save(ctx, &payment); err != nil {
		return models.Payment{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update payment status")
	}
	return payment, nil
}

// DeletePayment removes the payment and its artwork lines.
func (s *service) DeletePayment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "payment not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete payment")
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
