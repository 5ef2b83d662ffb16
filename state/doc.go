// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state manages the storage slots of the builtin contracts.
// It follows the flow as bellow:
//
//	         o
//	         |
//	[ revertable state ]
//	         |
//	  [ stacked map ] -> [ journal ] -> [ commit(bulk) ] -> [ kv store ]
//	         |
//	  [ slot cache ]
//	         |
//	  [ kv store ]
//
// Every public ledger operation runs between a checkpoint and either a revert
// or a commit, so a rejected operation leaves no trace.
package state
