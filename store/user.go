package store

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/bookbid/bookbid/log"
	"github.com/bookbid/bookbid/model"
)

func (s *Store) GetUser(find *model.FindUser) (*model.User, error) {
	if find.Email != nil {
		if cache, ok := s.UserCache.Load(*find.Email); ok {
			return cache.(*model.User), nil
		}
	}

	list, err := s.ListUsers(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.UserCache.Store(user.Email, user)
	return user, nil
}

func (s *Store) ListUsers(find *model.FindUser) ([]*model.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}
	if v := find.City; v != nil {
		where, args = append(where, "city = ?"), append(args, *v)
	}

	// Here will return password_hash, so need to be careful.
	// If need to respond to the client, use model.User.Public().
	query := `
		SELECT
			id,
			name,
			email,
			city,
			address,
			phone,
			password_hash,
			avatar_url,
			books,
			created_ts,
			updated_ts
		FROM user
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	// zap not support escape character, so need to fallback.
	// https://github.com/uber-go/zap/issues/963
	log.Fallback("Debug", fmt.Sprintf("query: %s\nargs: %v\n", query, args))

	rows, err := s.db.Query(query, args...)
	if err != nil {
		log.Debug("Error querying users", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.User, 0)
	for rows.Next() {
		var user model.User
		var books []byte
		// The ordering of query results should be consistent with query var
		if err := rows.Scan(
			&user.ID,
			&user.Name,
			&user.Email,
			&user.City,
			&user.Address,
			&user.Phone,
			&user.PasswordHash,
			&user.AvatarURL,
			&books,
			&user.CreatedTs,
			&user.UpdatedTs,
		); err != nil {
			return nil, err
		}
		// Legacy rows may hold titles as objects or repr strings,
		// normalize once here at the storage boundary.
		user.Books = model.DecodeBookList(books)
		list = append(list, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (s *Store) CreateUser(create *model.User) (*model.User, error) {
	fields := []string{"`name`", "`email`", "`city`", "`address`", "`phone`", "`password_hash`", "`avatar_url`", "`books`"}
	placeholder := []string{"?", "?", "?", "?", "?", "?", "?", "?"}
	args := []any{create.Name, create.Email, create.City, create.Address, create.Phone, create.PasswordHash, create.AvatarURL, model.EncodeBookList(create.Books)}
	stmt := "INSERT INTO user (" + strings.Join(fields, ", ") + ") VALUES (" + strings.Join(placeholder, ", ") + ") RETURNING id, name, email, city, address, phone, password_hash, avatar_url, books, created_ts, updated_ts"

	log.Fallback("Debug", fmt.Sprintf("CreateUser\nstmt: %s\n", stmt))

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var user model.User
	var books []byte
	if err := tx.QueryRow(stmt, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.City,
		&user.Address,
		&user.Phone,
		&user.PasswordHash,
		&user.AvatarURL,
		&books,
		&user.CreatedTs,
		&user.UpdatedTs,
	); err != nil {
		return nil, err
	}
	user.Books = model.DecodeBookList(books)

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	s.UserCache.Store(user.Email, &user)
	return &user, nil
}

func (s *Store) UpdateUser(email string, update *model.UpdateUser) (*model.User, error) {
	set, args := []string{}, []any{}

	if v := update.Name; v != nil {
		set, args = append(set, "name = ?"), append(args, *v)
	}
	if v := update.City; v != nil {
		set, args = append(set, "city = ?"), append(args, *v)
	}
	if v := update.Address; v != nil {
		set, args = append(set, "address = ?"), append(args, *v)
	}
	if v := update.Phone; v != nil {
		set, args = append(set, "phone = ?"), append(args, *v)
	}
	if v := update.AvatarURL; v != nil {
		set, args = append(set, "avatar_url = ?"), append(args, *v)
	}
	if v := update.PasswordHash; v != nil {
		set, args = append(set, "password_hash = ?"), append(args, *v)
	}

	if len(set) == 0 {
		return s.GetUser(&model.FindUser{Email: &email})
	}

	set = append(set, "updated_ts = strftime('%s', 'now')")
	args = append(args, email)

	stmt := "UPDATE user SET " + strings.Join(set, ", ") + " WHERE email = ? RETURNING id, name, email, city, address, phone, password_hash, avatar_url, books, created_ts, updated_ts"

	var user model.User
	var books []byte
	if err := s.db.QueryRow(stmt, args...).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.City,
		&user.Address,
		&user.Phone,
		&user.PasswordHash,
		&user.AvatarURL,
		&books,
		&user.CreatedTs,
		&user.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "store: unable to update user")
	}
	user.Books = model.DecodeBookList(books)

	s.UserCache.Store(user.Email, &user)
	return &user, nil
}

// UpdateUserBooks replaces the owned-title list of a user.
func (s *Store) UpdateUserBooks(email string, titles []string) (*model.User, error) {
	stmt := `UPDATE user SET books = ?, updated_ts = strftime('%s', 'now') WHERE email = ? RETURNING id, name, email, city, address, phone, password_hash, avatar_url, books, created_ts, updated_ts`

	var user model.User
	var books []byte
	if err := s.db.QueryRow(stmt, model.EncodeBookList(titles), email).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.City,
		&user.Address,
		&user.Phone,
		&user.PasswordHash,
		&user.AvatarURL,
		&books,
		&user.CreatedTs,
		&user.UpdatedTs,
	); err != nil {
		return nil, errors.Wrap(err, "store: unable to update user books")
	}
	user.Books = model.DecodeBookList(books)

	s.UserCache.Store(user.Email, &user)
	return &user, nil
}
