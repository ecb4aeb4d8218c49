package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const queryTimeout = 5 * time.Second

var (
	errNotFound       = errors.New("not found")
	errDuplicateEmail = errors.New("duplicate email")
)

// storage is the repository boundary between handlers and persistence.
// Every todo/item operation takes the owner's user id and must treat rows
// owned by somebody else exactly like missing rows.
type storage interface {
	insertUser(ctx context.Context, email, username string, passwordHash []byte) (*user, error)
	getUserByEmail(ctx context.Context, email string) (*user, error)
	getUserByID(ctx context.Context, id uuid.UUID) (*user, error)

	insertTodoList(ctx context.Context, userID uuid.UUID, title string, description *string) (*todoList, error)
	getTodoListByID(ctx context.Context, id, userID uuid.UUID) (*todoList, error)
	getTodoLists(ctx context.Context, userID uuid.UUID, offset, limit int) ([]todoList, error)
	countTodoLists(ctx context.Context, userID uuid.UUID) (int, error)
	updateTodoList(ctx context.Context, list *todoList) error
	deleteTodoList(ctx context.Context, id, userID uuid.UUID) error

	insertTodoItem(ctx context.Context, listID, userID uuid.UUID, title string, description *string) (*todoItem, error)
	getTodoItemByID(ctx context.Context, listID, itemID, userID uuid.UUID) (*todoItem, error)
	getTodoItems(ctx context.Context, listID, userID uuid.UUID, offset, limit int) ([]todoItem, error)
	countTodoItems(ctx context.Context, listID, userID uuid.UUID) (int, error)
	updateTodoItem(ctx context.Context, userID uuid.UUID, item *todoItem) error
	deleteTodoItem(ctx context.Context, listID, itemID, userID uuid.UUID) error
}

func openDB(cfg config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.db.dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.db.maxOpenConnections)
	db.SetMaxIdleConns(cfg.db.maxIdleConnections)
	db.SetConnMaxIdleTime(cfg.db.maxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

type postgresStorage struct {
	db *sql.DB
}

func newPostgresStorage(db *sql.DB) *postgresStorage {
	return &postgresStorage{db: db}
}

func (s *postgresStorage) insertUser(ctx context.Context, email, username string, passwordHash []byte) (*user, error) {
	query := `INSERT INTO users (email, username, password_hash)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at, updated_at`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	u := user{
		Email:        email,
		Username:     username,
		PasswordHash: passwordHash,
	}
	row := s.db.QueryRowContext(ctx, query, email, username, passwordHash)
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, errDuplicateEmail
		}
		return nil, err
	}
	return &u, nil
}

func (s *postgresStorage) getUserByEmail(ctx context.Context, email string) (*user, error) {
	query := `SELECT id, email, username, password_hash, created_at, updated_at
			  FROM users
			  WHERE email = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u user
	row := s.db.QueryRowContext(ctx, query, email)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *postgresStorage) getUserByID(ctx context.Context, id uuid.UUID) (*user, error) {
	query := `SELECT id, email, username, password_hash, created_at, updated_at
			  FROM users
			  WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var u user
	row := s.db.QueryRowContext(ctx, query, id)
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *postgresStorage) insertTodoList(ctx context.Context, userID uuid.UUID, title string, description *string) (*todoList, error) {
	query := `INSERT INTO todos (user_id, title, description)
			  VALUES ($1, $2, $3)
			  RETURNING id, created_at, updated_at`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	list := todoList{
		UserID:      userID,
		Title:       title,
		Description: description,
		Items:       []todoItem{},
	}
	row := s.db.QueryRowContext(ctx, query, userID, title, description)
	err := row.Scan(&list.ID, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *postgresStorage) getTodoListByID(ctx context.Context, id, userID uuid.UUID) (*todoList, error) {
	query := `SELECT id, user_id, title, description, created_at, updated_at
			  FROM todos
			  WHERE id = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var list todoList
	row := s.db.QueryRowContext(ctx, query, id, userID)
	err := row.Scan(&list.ID, &list.UserID, &list.Title, &list.Description, &list.CreatedAt, &list.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}

	itemsQuery := `SELECT id, todo_id, title, description, completed, created_at, updated_at
				   FROM todo_items
				   WHERE todo_id = $1
				   ORDER BY created_at, id`
	rows, err := s.db.QueryContext(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list.Items = []todoItem{}
	for rows.Next() {
		var item todoItem
		err = rows.Scan(&item.ID, &item.TodoID, &item.Title, &item.Description, &item.Completed, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *postgresStorage) getTodoLists(ctx context.Context, userID uuid.UUID, offset, limit int) ([]todoList, error) {
	query := `SELECT id, user_id, title, description, created_at, updated_at
			  FROM todos
			  WHERE user_id = $1
			  ORDER BY created_at, id
			  LIMIT $2 OFFSET $3`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := []todoList{}
	for rows.Next() {
		var list todoList
		err = rows.Scan(&list.ID, &list.UserID, &list.Title, &list.Description, &list.CreatedAt, &list.UpdatedAt)
		if err != nil {
			return nil, err
		}
		lists = append(lists, list)
	}
	return lists, rows.Err()
}

func (s *postgresStorage) countTodoLists(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT count(*) FROM todos WHERE user_id = $1`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

func (s *postgresStorage) updateTodoList(ctx context.Context, list *todoList) error {
	query := `UPDATE todos
			  SET title = $1, description = $2, updated_at = now()
			  WHERE id = $3 AND user_id = $4
			  RETURNING updated_at`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, query, list.Title, list.Description, list.ID, list.UserID)
	err := row.Scan(&list.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}
	return err
}

func (s *postgresStorage) deleteTodoList(ctx context.Context, id, userID uuid.UUID) error {
	query := `DELETE FROM todos
			  WHERE id = $1 AND user_id = $2`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errNotFound
	}
	return nil
}

// insertTodoItem guards ownership in the statement itself: the INSERT's
// source SELECT yields no row when the list is absent or foreign, which
// surfaces as sql.ErrNoRows on the RETURNING scan.
func (s *postgresStorage) insertTodoItem(ctx context.Context, listID, userID uuid.UUID, title string, description *string) (*todoItem, error) {
	query := `INSERT INTO todo_items (todo_id, title, description)
			  SELECT t.id, $2, $3 FROM todos t WHERE t.id = $1 AND t.user_id = $4
			  RETURNING id, completed, created_at, updated_at`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	item := todoItem{
		TodoID:      listID,
		Title:       title,
		Description: description,
	}
	row := s.db.QueryRowContext(ctx, query, listID, title, description, userID)
	err := row.Scan(&item.ID, &item.Completed, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *postgresStorage) getTodoItemByID(ctx context.Context, listID, itemID, userID uuid.UUID) (*todoItem, error) {
	query := `SELECT i.id, i.todo_id, i.title, i.description, i.completed, i.created_at, i.updated_at
			  FROM todo_items i
			  JOIN todos t ON t.id = i.todo_id
			  WHERE i.id = $1 AND t.id = $2 AND t.user_id = $3`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var item todoItem
	row := s.db.QueryRowContext(ctx, query, itemID, listID, userID)
	err := row.Scan(&item.ID, &item.TodoID, &item.Title, &item.Description, &item.Completed, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *postgresStorage) getTodoItems(ctx context.Context, listID, userID uuid.UUID, offset, limit int) ([]todoItem, error) {
	query := `SELECT i.id, i.todo_id, i.title, i.description, i.completed, i.created_at, i.updated_at
			  FROM todo_items i
			  JOIN todos t ON t.id = i.todo_id
			  WHERE t.id = $1 AND t.user_id = $2
			  ORDER BY i.created_at, i.id
			  LIMIT $3 OFFSET $4`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, listID, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []todoItem{}
	for rows.Next() {
		var item todoItem
		err = rows.Scan(&item.ID, &item.TodoID, &item.Title, &item.Description, &item.Completed, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// countTodoItems doubles as the list-existence check for the item listing
// endpoint, so it reports errNotFound instead of a zero count.
func (s *postgresStorage) countTodoItems(ctx context.Context, listID, userID uuid.UUID) (int, error) {
	query := `SELECT count(i.id)
			  FROM todos t
			  LEFT JOIN todo_items i ON i.todo_id = t.id
			  WHERE t.id = $1 AND t.user_id = $2
			  GROUP BY t.id`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := s.db.QueryRowContext(ctx, query, listID, userID).Scan(&count)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, errNotFound
	}
	return count, err
}

func (s *postgresStorage) updateTodoItem(ctx context.Context, userID uuid.UUID, item *todoItem) error {
	query := `UPDATE todo_items i
			  SET title = $1, description = $2, completed = $3, updated_at = now()
			  FROM todos t
			  WHERE i.id = $4 AND i.todo_id = t.id AND t.id = $5 AND t.user_id = $6
			  RETURNING i.updated_at`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx, query, item.Title, item.Description, item.Completed, item.ID, item.TodoID, userID)
	err := row.Scan(&item.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return errNotFound
	}
	return err
}

func (s *postgresStorage) deleteTodoItem(ctx context.Context, listID, itemID, userID uuid.UUID) error {
	query := `DELETE FROM todo_items i
			  USING todos t
			  WHERE i.id = $1 AND i.todo_id = t.id AND t.id = $2 AND t.user_id = $3`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := s.db.ExecContext(ctx, query, itemID, listID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errNotFound
	}
	return nil
}
