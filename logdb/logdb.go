// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package logdb persists the events of committed ledger operations in sqlite.
package logdb

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rlp"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/liquid/event"
	"github.com/vechain/liquid/log"
	"github.com/vechain/liquid/thor"
)

var logger = log.WithContext("pkg", "logdb")

const insertEventQuery = "INSERT OR REPLACE INTO event(seq, eventIndex, address, name, subject0, subject1, subject2, data) VALUES (?, ?, ?, ?, ?, ?, ?, ?)"

type LogDB struct {
	path          string
	db            *sql.DB
	insertStmt    *sql.Stmt
	driverVersion string
}

// New create or open log db at given path.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// in-memory databases are per connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}
	insertStmt, err := db.Prepare(insertEventQuery)
	if err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	logger.Debug("log db opened", "path", path, "sqlite", driverVer)
	return &LogDB{
		path:          path,
		db:            db,
		insertStmt:    insertStmt,
		driverVersion: driverVer,
	}, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(":memory:")
}

// Close close the log db.
func (db *LogDB) Close() error {
	if err := db.insertStmt.Close(); err != nil {
		logger.Warn("close insert statement", "err", err)
	}
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// Write stores the events of the operation with sequence number seq in one transaction.
func (db *LogDB) Write(seq uint64, events event.Events) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	stmt := tx.Stmt(db.insertStmt)
	for i, ev := range events {
		e := newEvent(seq, uint32(i), ev)
		data, err := rlp.EncodeToBytes(e.Amounts)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "encode amounts")
		}
		var subjects [maxSubjects][]byte
		for j, s := range e.Subjects {
			subjects[j] = s.Bytes()
		}
		if _, err := stmt.Exec(
			e.Seq,
			e.Index,
			e.Address.Bytes(),
			e.Name,
			subjects[0],
			subjects[1],
			subjects[2],
			data,
		); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// NewestSeq returns the highest written sequence number, zero when empty.
func (db *LogDB) NewestSeq() (uint64, error) {
	var seq sql.NullInt64
	if err := db.db.QueryRow("SELECT MAX(seq) FROM event").Scan(&seq); err != nil {
		return 0, err
	}
	if !seq.Valid {
		return 0, nil
	}
	return uint64(seq.Int64), nil
}

func (db *LogDB) FilterEvents(ctx context.Context, filter *EventFilter) ([]*Event, error) {
	if filter == nil {
		return db.queryEvents(ctx, "SELECT * FROM event ORDER BY seq ASC, eventIndex ASC")
	}
	metricsHandleEventsFilter(filter)

	var args []any
	stmt := "SELECT * FROM event WHERE 1"
	if filter.Range != nil {
		args = append(args, filter.Range.From)
		stmt += " AND seq >= ? "
		if filter.Range.To >= filter.Range.From {
			args = append(args, filter.Range.To)
			stmt += " AND seq <= ? "
		}
	}
	for i, criteria := range filter.CriteriaSet {
		if i == 0 {
			stmt += " AND (( 1"
		} else {
			stmt += " OR ( 1"
		}
		if criteria.Address != nil {
			args = append(args, criteria.Address.Bytes())
			stmt += " AND address = ? "
		}
		if criteria.Name != "" {
			args = append(args, criteria.Name)
			stmt += " AND name = ? "
		}
		for j, subject := range criteria.Subjects {
			if subject != nil {
				args = append(args, subject.Bytes())
				stmt += fmt.Sprintf(" AND subject%v = ?", j)
			}
		}
		stmt += ")"
		if i == len(filter.CriteriaSet)-1 {
			stmt += ")"
		}
	}

	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC, eventIndex DESC "
	} else {
		stmt += " ORDER BY seq ASC, eventIndex ASC "
	}

	if filter.Options != nil {
		stmt += " LIMIT ?, ? "
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return db.queryEvents(ctx, stmt, args...)
}

func (db *LogDB) queryEvents(ctx context.Context, stmt string, args ...any) ([]*Event, error) {
	rows, err := db.db.QueryContext(ctx, stmt, args...)
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
			seq      uint64
			index    uint32
			address  []byte
			name     string
			subjects [maxSubjects][]byte
			data     []byte
		)
		if err := rows.Scan(
			&seq,
			&index,
			&address,
			&name,
			&subjects[0],
			&subjects[1],
			&subjects[2],
			&data,
		); err != nil {
			return nil, err
		}
		ev := &Event{
			Seq:     seq,
			Index:   index,
			Address: thor.BytesToAddress(address),
			Name:    name,
		}
		for _, s := range subjects {
			if len(s) == 0 {
				break
			}
			ev.Subjects = append(ev.Subjects, thor.BytesToAddress(s))
		}
		var amounts []*big.Int
		if err := rlp.DecodeBytes(data, &amounts); err != nil {
			return nil, errors.Wrap(err, "decode amounts")
		}
		ev.Amounts = amounts
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
