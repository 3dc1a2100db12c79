package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/flowbit/pkg/pagination"
	"github.com/JaimeStill/flowbit/pkg/repository"
	"github.com/JaimeStill/flowbit/pkg/store"
)

type transactionRepository struct {
	records store.System
	index   *sql.DB
	logger  *slog.Logger
}

// NewSystem creates the transaction record system backed by the record
// store, with a relational index for listings.
func NewSystem(records store.System, index *sql.DB, logger *slog.Logger) System {
	return &transactionRepository{
		records: records,
		index:   index,
		logger:  logger.With("system", "transactions"),
	}
}

func (r *transactionRepository) Create(ctx context.Context, record *Record) error {
	if record.TransactionID == "" {
		return ErrMissingID
	}
	if record.ChainedAction == "" {
		record.ChainedAction = ActionNone
	}

	if err := r.records.Put(ctx, record.TransactionID, record); err != nil {
		return fmt.Errorf("create transaction %s: %w", record.TransactionID, err)
	}

	r.writeIndex(ctx, record)
	return nil
}

func (r *transactionRepository) Find(ctx context.Context, id string) (*Record, error) {
	var record Record
	if err := r.records.Get(ctx, id, &record); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find transaction %s: %w", id, err)
	}
	return &record, nil
}

func (r *transactionRepository) Merge(ctx context.Context, id string, update Update) (*Record, error) {
	record, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Apply(update)

	if err := r.records.Put(ctx, id, record); err != nil {
		return nil, fmt.Errorf("merge transaction %s: %w", id, err)
	}

	r.writeIndex(ctx, record)
	return record, nil
}

func (r *transactionRepository) List(ctx context.Context, page pagination.Page, filters Filters) (pagination.Result[Summary], error) {
	where, args := filters.clause()

	total, err := repository.QueryOne(ctx, r.index,
		`SELECT COUNT(*) FROM transactions`+where,
		func(s repository.Scanner) (int64, error) {
			var count int64
			err := s.Scan(&count)
			return count, err
		},
		args...,
	)
	if err != nil {
		return pagination.Result[Summary]{}, fmt.Errorf("count transactions: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT transaction_id, created_at, format, intent, chained_action, final_status
		 FROM transactions%s
		 ORDER BY created_at DESC
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2,
	)

	items, err := repository.QueryMany(ctx, r.index,
		query,
		scanSummary,
		append(args, page.Size, page.Offset())...,
	)
	if err != nil {
		return pagination.Result[Summary]{}, fmt.Errorf("list transactions: %w", err)
	}

	return pagination.NewResult(items, page, total), nil
}

// writeIndex upserts the listing projection. Index failures are logged
// and swallowed; the record store remains authoritative. A nil index
// disables the projection entirely.
func (r *transactionRepository) writeIndex(ctx context.Context, record *Record) {
	if r.index == nil {
		return
	}

	summary := record.Summarize()

	_, err := repository.Exec(ctx, r.index,
		`INSERT INTO transactions (transaction_id, created_at, format, intent, chained_action, final_status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (transaction_id) DO UPDATE
		 SET format = EXCLUDED.format,
		     intent = EXCLUDED.intent,
		     chained_action = EXCLUDED.chained_action,
		     final_status = EXCLUDED.final_status`,
		summary.TransactionID,
		summary.Timestamp,
		string(summary.Format),
		string(summary.Intent),
		string(summary.ChainedAction),
		summary.FinalStatus,
	)
	if err != nil {
		r.logger.Warn("transaction index write failed",
			"transaction_id", summary.TransactionID,
			"error", err,
		)
	}
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var (
		summary Summary
		format  string
		intent  string
		action  string
	)

	if err := s.Scan(
		&summary.TransactionID,
		&summary.Timestamp,
		&format,
		&intent,
		&action,
		&summary.FinalStatus,
	); err != nil {
		return Summary{}, err
	}

	summary.Format = Format(format)
	summary.Intent = Intent(intent)
	summary.ChainedAction = ChainedAction(action)
	return summary, nil
}
