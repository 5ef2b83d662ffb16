// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// create a table for event
const eventTableSchema = `
create table if not exists event (
	seq integer,
	eventIndex integer,
	address blob(20),
	name text,
	subject0 blob(20),
	subject1 blob(20),
	subject2 blob(20),
	data blob,
	primary key (seq, eventIndex)
);

CREATE INDEX if not exists addressIndex on event(address);
CREATE INDEX if not exists nameIndex on event(name);
CREATE INDEX if not exists subjectIndex0 on event(subject0);
CREATE INDEX if not exists subjectIndex1 on event(subject1);
CREATE INDEX if not exists subjectIndex2 on event(subject2);
`
