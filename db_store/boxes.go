package db_store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migrate_mysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migrate_sqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"gopkg.in/guregu/null.v4"
	_ "modernc.org/sqlite"
)

const BOXES_MIGRATIONS_TABLE = "boxes_schema_migrations"

func init() {
	sqlx.BindDriver(DRIVER_SQLITE, sqlx.QUESTION)
}

var _ BoxStore = (*BoxesDBStore)(nil)

// BoxesDBStore keeps boxes in MySQL or SQLite. Reads go to the optional
// replica, except for the box returned after a write, which is read from
// the primary.
type BoxesDBStore struct {
	logger *logrus.Logger
	writer *sqlx.DB
	reader *sqlx.DB

	// row locking clause for the driver. SQLite locks the whole database.
	forUpdate string
}

type boxEntryRow struct {
	Id          int64       `db:"id"`
	UserId      string      `db:"user_id"`
	Name        null.String `db:"name"`
	Sprite      string      `db:"sprite"`
	CP          int64       `db:"cp"`
	QuickMove   null.String `db:"quick_move"`
	ChargeMoves string      `db:"charge_moves"`
}

func (row *boxEntryRow) BoxEntry() (BoxEntry, error) {
	entry := BoxEntry{
		Name:        row.Name,
		Sprite:      row.Sprite,
		CP:          row.CP,
		QuickMove:   row.QuickMove,
		ChargeMoves: []string{},
	}

	if row.ChargeMoves != "" {
		if err := json.Unmarshal([]byte(row.ChargeMoves), &entry.ChargeMoves); err != nil {
			return entry, fmt.Errorf("bad charge_moves for box entry %d: %w", row.Id, err)
		}
	}

	return entry, nil
}

func newBoxEntryRow(userId string, entry BoxEntry) (*boxEntryRow, error) {
	chargeMoves := entry.ChargeMoves
	if chargeMoves == nil {
		chargeMoves = []string{}
	}

	chargeMovesJson, err := json.Marshal(chargeMoves)
	if err != nil {
		return nil, err
	}

	return &boxEntryRow{
		UserId:      userId,
		Name:        entry.Name,
		Sprite:      entry.Sprite,
		CP:          entry.CP,
		QuickMove:   entry.QuickMove,
		ChargeMoves: string(chargeMovesJson),
	}, nil
}

const (
	boxEntryColumns = "id,user_id,name,sprite,cp,quick_move,charge_moves"
)

func (st *BoxesDBStore) getBox(ctx context.Context, db sqlx.QueryerContext, userId string) ([]BoxEntry, error) {
	const query = "SELECT " + boxEntryColumns + " FROM box_entries WHERE user_id=? ORDER BY id"

	rows, err := db.QueryxContext(ctx, query, userId)
	if err != nil {
		return nil, err
	}

	entries := make([]BoxEntry, 0, 16)

	for rows.Next() {
		var row boxEntryRow

		if err := rows.StructScan(&row); err != nil {
			return nil, closeRows(rows, err)
		}

		entry, err := row.BoxEntry()
		if err != nil {
			return nil, closeRows(rows, err)
		}

		entries = append(entries, entry)
	}

	return entries, closeRows(rows, rows.Err())
}

// lockSlots returns the user's rows in slot order, locking them for the
// rest of the transaction.
func (st *BoxesDBStore) lockSlots(ctx context.Context, tx *sqlx.Tx, userId string) ([]boxEntryRow, error) {
	query := "SELECT " + boxEntryColumns + " FROM box_entries WHERE user_id=? ORDER BY id" + st.forUpdate

	var rows []boxEntryRow
	if err := tx.SelectContext(ctx, &rows, query, userId); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return rows, nil
}

// withSlot runs 'fn' in a transaction with the row at 'slot'.
func (st *BoxesDBStore) withSlot(ctx context.Context, userId string, slot int, fn func(*sqlx.Tx, *boxEntryRow) error) error {
	tx, err := st.writer.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rows, err := st.lockSlots(ctx, tx, userId)
	if err != nil {
		return err
	}

	if slot < 0 || slot >= len(rows) {
		return ErrInvalidSlot
	}

	if err := fn(tx, &rows[slot]); err != nil {
		return err
	}

	return tx.Commit()
}

func (st *BoxesDBStore) GetBox(ctx context.Context, userId string) ([]BoxEntry, error) {
	return st.getBox(ctx, st.reader, userId)
}

func (st *BoxesDBStore) AddEntry(ctx context.Context, userId string, entry BoxEntry) ([]BoxEntry, error) {
	const query = "INSERT INTO box_entries (user_id,name,sprite,cp,quick_move,charge_moves) VALUES (:user_id,:name,:sprite,:cp,:quick_move,:charge_moves)"

	row, err := newBoxEntryRow(userId, entry)
	if err != nil {
		return nil, err
	}

	if _, err := st.writer.NamedExecContext(ctx, query, row); err != nil {
		return nil, err
	}

	return st.getBox(ctx, st.writer, userId)
}

func (st *BoxesDBStore) UpdateEntry(ctx context.Context, userId string, slot int, entry BoxEntry) ([]BoxEntry, error) {
	const query = "UPDATE box_entries SET name=:name,sprite=:sprite,cp=:cp,quick_move=:quick_move,charge_moves=:charge_moves WHERE id=:id"

	newRow, err := newBoxEntryRow(userId, entry)
	if err != nil {
		return nil, err
	}

	err = st.withSlot(ctx, userId, slot, func(tx *sqlx.Tx, row *boxEntryRow) error {
		newRow.Id = row.Id
		_, err := tx.NamedExecContext(ctx, query, newRow)
		return err
	})
	if err != nil {
		return nil, err
	}

	return st.getBox(ctx, st.writer, userId)
}

func (st *BoxesDBStore) RemoveEntry(ctx context.Context, userId string, slot int) (BoxEntry, []BoxEntry, error) {
	const query = "DELETE FROM box_entries WHERE id=?"

	var removed BoxEntry

	err := st.withSlot(ctx, userId, slot, func(tx *sqlx.Tx, row *boxEntryRow) error {
		var err error
		if removed, err = row.BoxEntry(); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, query, row.Id)
		return err
	})
	if err != nil {
		return BoxEntry{}, nil, err
	}

	box, err := st.getBox(ctx, st.writer, userId)
	if err != nil {
		return BoxEntry{}, nil, err
	}

	return removed, box, nil
}

func (st *BoxesDBStore) Close() error {
	if st.reader != st.writer {
		st.reader.Close()
	}
	return st.writer.Close()
}

func connect(config DBConfig) (*sqlx.DB, error) {
	if config.IsSQLite() {
		if dir := filepath.Dir(config.Db); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("couldn't create sqlite directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(config.DriverName(), config.AsDSN())
	if err != nil {
		return nil, err
	}

	if config.IsSQLite() {
		// a single writer avoids SQLITE_BUSY.
		db.SetMaxOpenConns(1)
	} else if config.MaxPool > 0 {
		db.SetMaxOpenConns(config.MaxPool)
	}

	return db, nil
}

func migrationDriver(db *sqlx.DB, config DBConfig) (database.Driver, error) {
	if config.IsSQLite() {
		return migrate_sqlite.WithInstance(db.DB, &migrate_sqlite.Config{
			MigrationsTable: BOXES_MIGRATIONS_TABLE,
		})
	}
	return migrate_mysql.WithInstance(db.DB, &migrate_mysql.Config{
		MigrationsTable: BOXES_MIGRATIONS_TABLE,
		DatabaseName:    config.Db,
	})
}

// runMigrations applies the migrations in the driver's subdirectory of
// 'migratePath' (eg 'db_store/sql/mysql').
func runMigrations(db *sqlx.DB, config DBConfig, logger *logrus.Logger, migratePath string) error {
	if migratePath == "" {
		logger.Infof("skipping boxes_db migrations: no path given")
		return nil
	}

	migratePath = strings.TrimPrefix(migratePath, "file://")
	migratePath = filepath.ToSlash(filepath.Join(migratePath, config.DriverName()))

	logger.Infof("running boxes_db migrations from '%s'", migratePath)

	dbDriver, err := migrationDriver(db, config)
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migratePath, config.DriverName(), dbDriver)
	if err != nil {
		return fmt.Errorf("failed to run boxes DB migration: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	return nil
}

// NewBoxesDBStore connects to the primary (and the replica in 'readConfig',
// if configured) and brings the schema up to date.
func NewBoxesDBStore(writeConfig, readConfig DBConfig, logger *logrus.Logger, migratePath string) (*BoxesDBStore, error) {
	writer, err := connect(writeConfig)
	if err != nil {
		return nil, err
	}

	if err := runMigrations(writer, writeConfig, logger, migratePath); err != nil {
		writer.Close()
		return nil, err
	}

	reader := writer
	if readConfig.IsConfigured() {
		logger.Infof("boxes_db: using read replica at %s", readConfig.Addr)
		if reader, err = connect(readConfig); err != nil {
			writer.Close()
			return nil, err
		}
	}

	st := &BoxesDBStore{
		logger: logger,
		writer: writer,
		reader: reader,
	}

	if !writeConfig.IsSQLite() {
		st.forUpdate = " FOR UPDATE"
	}

	return st, nil
}
