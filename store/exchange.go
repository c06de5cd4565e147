package store

import (
	"database/sql"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
)

func (s *Store) CreateRequest(create *model.ExchangeRequest) (*model.ExchangeRequest, error) {
	if create.ID == "" {
		create.ID = uuid.New().String()
	}
	if create.Status == "" {
		create.Status = model.StatusPending
	}

	stmt := `INSERT INTO exchange_request (id, from_user, to_user, requested_book, offered_book, status)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id, from_user, to_user, requested_book, offered_book, status, created_ts`

	var req model.ExchangeRequest
	if err := s.db.QueryRow(stmt,
		create.ID,
		create.FromUser,
		create.ToUser,
		create.RequestedBook,
		create.OfferedBook,
		create.Status.String(),
	).Scan(
		&req.ID,
		&req.FromUser,
		&req.ToUser,
		&req.RequestedBook,
		&req.OfferedBook,
		&req.Status,
		&req.CreatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "store: unable to create exchange request")
	}

	return &req, nil
}

func (s *Store) GetRequest(id string) (*model.ExchangeRequest, error) {
	list, err := s.ListRequests(&model.FindRequest{ID: &id})
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListRequests(find *model.FindRequest) ([]*model.ExchangeRequest, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.FromUser; v != nil {
		where, args = append(where, "from_user = ?"), append(args, *v)
	}
	if v := find.ToUser; v != nil {
		where, args = append(where, "to_user = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, v.String())
	}

	query := `
		SELECT
			id,
			from_user,
			to_user,
			requested_book,
			offered_book,
			status,
			created_ts
		FROM exchange_request
		WHERE ` + strings.Join(where, " AND ")
	// Ordering is a store capability, not a promise. Without the index
	// the listing is returned unordered.
	if s.SupportsRequestOrdering() {
		query += ` ORDER BY created_ts DESC`
	}

	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.ExchangeRequest, 0)
	for rows.Next() {
		var req model.ExchangeRequest
		if err := rows.Scan(
			&req.ID,
			&req.FromUser,
			&req.ToUser,
			&req.RequestedBook,
			&req.OfferedBook,
			&req.Status,
			&req.CreatedTs,
		); err != nil {
			return nil, err
		}
		list = append(list, &req)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// AcceptSwap transitions a pending request to accepted and moves the two
// books between the user records in a single transaction. Each side's
// move is conditional on the book still being owned; a missing book
// skips that side without failing the accept. Accepting an already
// accepted request is a no-op.
func (s *Store) AcceptSwap(id, acceptor string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var req model.ExchangeRequest
	err = tx.QueryRow(
		`SELECT id, from_user, to_user, requested_book, offered_book, status FROM exchange_request WHERE id = ?`,
		id,
	).Scan(&req.ID, &req.FromUser, &req.ToUser, &req.RequestedBook, &req.OfferedBook, &req.Status)
	if err == sql.ErrNoRows {
		return model.ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "store: unable to load exchange request")
	}

	if req.ToUser != acceptor {
		return model.ErrForbidden
	}
	if req.Status == model.StatusAccepted {
		return nil
	}

	if _, err := tx.Exec(
		`UPDATE exchange_request SET status = ? WHERE id = ?`,
		model.StatusAccepted.String(), id,
	); err != nil {
		return errors.Wrap(err, "store: unable to accept exchange request")
	}

	// Stored request titles pass through the same coercion as the
	// owned-title lists before comparison.
	requested := model.CoerceTitle(req.RequestedBook)
	offered := model.CoerceTitle(req.OfferedBook)

	// Requester side: offered book out, requested book in.
	if err := swapBookInTx(tx, req.FromUser, offered, requested); err != nil {
		return err
	}
	// Acceptor side: requested book out, offered book in.
	if err := swapBookInTx(tx, req.ToUser, requested, offered); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.UserCache.Delete(req.FromUser)
	s.UserCache.Delete(req.ToUser)
	return nil
}

func swapBookInTx(tx *sql.Tx, email, remove, add string) error {
	var books []byte
	err := tx.QueryRow(`SELECT books FROM user WHERE email = ?`, email).Scan(&books)
	if err == sql.ErrNoRows {
		// Missing user record skips this side, same as a missing book.
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "store: unable to load books for %s", email)
	}

	titles := model.DecodeBookList(books)
	idx := slices.Index(titles, remove)
	if idx < 0 {
		return nil
	}
	titles = slices.Delete(titles, idx, idx+1)
	titles = append(titles, add)

	if _, err := tx.Exec(
		`UPDATE user SET books = ?, updated_ts = strftime('%s', 'now') WHERE email = ?`,
		model.EncodeBookList(titles), email,
	); err != nil {
		return errors.Wrapf(err, "store: unable to update books for %s", email)
	}
	return nil
}
