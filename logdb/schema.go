// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for ledger events
const eventTableSchema = `
create table if not exists event (
	seq integer primary key autoincrement,
	kind text not null,
	poolID integer,
	account blob(20),
	caller blob(20) not null,
	time integer not null,
	data blob
);

create index if not exists eventKindIndex on event(kind);
create index if not exists eventPoolIndex on event(poolID);
create index if not exists eventAccountIndex on event(account);
create index if not exists eventTimeIndex on event(time);
`
