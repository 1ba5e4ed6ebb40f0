package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/loan_desk_app/internal/apperrors"
	"github.com/SscSPs/loan_desk_app/internal/core/domain"
	portsrepo "github.com/SscSPs/loan_desk_app/internal/core/ports/repositories"
	"github.com/SscSPs/loan_desk_app/internal/models"
	"github.com/SscSPs/loan_desk_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLoanRepository struct {
	BaseRepository
}

func newPgxLoanRepository(pool *pgxpool.Pool) portsrepo.LoanRepositoryFacade {
	return &PgxLoanRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.LoanRepositoryFacade = (*PgxLoanRepository)(nil)

const selectLoanQuery = `
SELECT
	l.loan_id, l.employee_id, l.company_id, l.employee_name, l.company_name, l.amount,
	l.purpose, l.interest_rate, l.repayment_term, l.total_amount, l.monthly_payment,
	l.status, l.notes, l.rejection_reason, l.decided_by, l.created_at, l.updated_at
FROM loans l
`

func (r *PgxLoanRepository) getLoans(ctx context.Context, filterQuery string, args ...any) ([]domain.Loan, error) {
	rows, err := r.Pool.Query(ctx, selectLoanQuery+filterQuery, args...)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to query loans", err)
	}
	defer rows.Close()
	modelLoans, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Loan])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return []domain.Loan{}, nil
		}
		return nil, apperrors.NewStoreUnavailableError("failed to collect loan rows", err)
	}
	return mapping.ToDomainLoanSlice(modelLoans)
}

func (r *PgxLoanRepository) FindLoanByID(ctx context.Context, loanID string) (*domain.Loan, error) {
	loans, err := r.getLoans(ctx, `WHERE l.loan_id = $1`, loanID)
	if err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return nil, apperrors.NewNotFoundError("loan not found")
	}
	return &loans[0], nil
}

func (r *PgxLoanRepository) ListLoans(ctx context.Context) ([]domain.Loan, error) {
	return r.getLoans(ctx, `ORDER BY l.created_at DESC, l.loan_id`)
}

func (r *PgxLoanRepository) ListLoansByCompany(ctx context.Context, companyID string) ([]domain.Loan, error) {
	return r.getLoans(ctx, `WHERE l.company_id = $1 ORDER BY l.created_at DESC, l.loan_id`, companyID)
}

func (r *PgxLoanRepository) ListLoansByEmployee(ctx context.Context, employeeID string) ([]domain.Loan, error) {
	return r.getLoans(ctx, `WHERE l.employee_id = $1 ORDER BY l.created_at DESC, l.loan_id`, employeeID)
}

// SaveLoan inserts a loan while holding a share lock on the borrower, so the
// employee cannot be rejected between validation and insert.
func (r *PgxLoanRepository) SaveLoan(ctx context.Context, loan domain.Loan) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	var status *string
	err = tx.QueryRow(ctx, `SELECT status FROM employees WHERE employee_id = $1 FOR SHARE`, loan.EmployeeID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFoundError("employee not found")
		}
		return apperrors.NewStoreUnavailableError("failed to lock employee "+loan.EmployeeID, err)
	}
	if status == nil || *status != string(domain.EmployeeVerified) {
		return apperrors.NewForbiddenError("employee is not verified")
	}

	m := mapping.ToModelLoan(loan)
	query := `
		INSERT INTO loans (
			loan_id, employee_id, company_id, employee_name, company_name, amount, purpose,
			interest_rate, repayment_term, total_amount, monthly_payment, status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err = tx.Exec(ctx, query,
		m.LoanID,
		m.EmployeeID,
		m.CompanyID,
		m.EmployeeName,
		m.CompanyName,
		m.Amount,
		m.Purpose,
		m.InterestRate,
		m.RepaymentTerm,
		m.TotalAmount,
		m.MonthlyPayment,
		m.Status,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to save loan "+loan.LoanID, "")
	}
	return r.Commit(ctx, tx)
}

// TransitionLoanStatus is a compare-and-set on the status column.
func (r *PgxLoanRepository) TransitionLoanStatus(ctx context.Context, loanID string, change domain.LoanStatusChange) error {
	var notes, reason *string
	if change.Notes != "" {
		notes = &change.Notes
	}
	if change.Reason != "" {
		reason = &change.Reason
	}
	query := `
		UPDATE loans
		SET status = $3,
			notes = COALESCE($4, notes),
			rejection_reason = COALESCE($5, rejection_reason),
			decided_by = $6,
			updated_at = $7
		WHERE loan_id = $1 AND status = $2;
	`
	tag, err := r.Pool.Exec(ctx, query, loanID, string(change.From), string(change.To), notes, reason, change.By, change.At)
	if err != nil {
		return mapWriteError(err, "failed to transition loan "+loanID, "")
	}
	if tag.RowsAffected() == 0 {
		return r.conditionalMiss(ctx, "loans", "loan_id", loanID, "loan", string(change.From), string(change.To))
	}
	return nil
}

func (r *PgxLoanRepository) SaveLoanComment(ctx context.Context, comment domain.LoanComment) error {
	m := mapping.ToModelLoanComment(comment)
	query := `
		INSERT INTO loan_comments (comment_id, loan_id, author_id, author_kind, author_name, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.CommentID, m.LoanID, m.AuthorID, m.AuthorKind, m.AuthorName, m.Comment, m.CreatedAt)
	if err != nil {
		return mapWriteError(err, "failed to save comment on loan "+comment.LoanID, "")
	}
	return nil
}

func (r *PgxLoanRepository) ListLoanComments(ctx context.Context, loanID string) ([]domain.LoanComment, error) {
	query := `
		SELECT comment_id, loan_id, author_id, author_kind, author_name, comment, created_at
		FROM loan_comments
		WHERE loan_id = $1
		ORDER BY created_at, comment_id;
	`
	rows, err := r.Pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to query loan comments", err)
	}
	defer rows.Close()
	modelComments, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.LoanComment])
	if err != nil {
		return nil, apperrors.NewStoreUnavailableError("failed to collect loan comment rows", err)
	}
	comments := make([]domain.LoanComment, 0, len(modelComments))
	for _, m := range modelComments {
		c, err := mapping.ToDomainLoanComment(m)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}
