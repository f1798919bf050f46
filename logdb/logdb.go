// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"context"
	"database/sql"
	"strings"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/nftstaking/thor"
)

type LogDB struct {
	path          string
	db            *sql.DB
	stmtCache     *stmtCache
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// sqlite allows one writer at a time
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &LogDB{
		path,
		db,
		newStmtCache(db),
		driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmtCache.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// DriverVersion returns the version of the embedded sqlite library.
func (db *LogDB) DriverVersion() string {
	return db.driverVersion
}

func nullablePool(id *uint64) any {
	if id == nil {
		return nil
	}
	return int64(*id)
}

func nullableAddress(addr *thor.Address) any {
	if addr == nil {
		return nil
	}
	return addr.Bytes()
}

// Insert writes events in one transaction and assigns their sequence numbers.
func (db *LogDB) Insert(events []*Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	for _, ev := range events {
		res, err := tx.Exec("INSERT INTO event(kind, poolID, account, caller, time, data) VALUES (?, ?, ?, ?, ?, ?);",
			ev.Kind,
			nullablePool(ev.PoolID),
			nullableAddress(ev.Account),
			ev.Caller.Bytes(),
			ev.Time,
			ev.Data,
		)
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
		seq, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
		ev.Seq = uint64(seq)
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	for _, ev := range events {
		metricInsertedEvents().AddWithLabel(1, map[string]string{"kind": ev.Kind})
	}
	return nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	const query = "SELECT seq, kind, poolID, account, caller, time, data FROM event"
	if filter == nil {
		return db.queryEvents(ctx, query+" ORDER BY seq ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := query + " WHERE 1"
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (?" + strings.Repeat(", ?", len(filter.Kinds)-1) + ")"
		for _, kind := range filter.Kinds {
			args = append(args, kind)
		}
	}
	if filter.PoolID != nil {
		args = append(args, int64(*filter.PoolID))
		stmt += " AND poolID = ?"
	}
	if filter.Account != nil {
		args = append(args, filter.Account.Bytes())
		stmt += " AND account = ?"
	}
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND time >= ?"
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND time <= ?"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, query string, args ...any) ([]*Event, error) {
	stmt, err := db.stmtCache.Prepare(query)
	if err != nil {
		return nil, err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq     uint64
			kind    string
			poolID  sql.NullInt64
			account []byte
			caller  []byte
			time    uint64
			data    []byte
		)
		if err := rows.Scan(
			&seq,
			&kind,
			&poolID,
			&account,
			&caller,
			&time,
			&data,
		); err != nil {
			return nil, err
		}
		event := &Event{
			Seq:    seq,
			Kind:   kind,
			Caller: thor.BytesToAddress(caller),
			Time:   time,
			Data:   data,
		}
		if poolID.Valid {
			id := uint64(poolID.Int64)
			event.PoolID = &id
		}
		if len(account) > 0 {
			addr := thor.BytesToAddress(account)
			event.Account = &addr
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
