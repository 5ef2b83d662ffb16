// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"runtime"

	"github.com/elastic/gosigar"
	"github.com/ethereum/go-ethereum/common/fdlimit"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/liquid/api/doc"
	"github.com/vechain/liquid/builtin"
	"github.com/vechain/liquid/genesis"
	"github.com/vechain/liquid/ledger"
	"github.com/vechain/liquid/logdb"
	"github.com/vechain/liquid/lvldb"
	"github.com/vechain/liquid/thor"
)

func useColor(f *os.File) bool {
	return (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
}

func selectGenesis(ctx *cli.Context) (*genesis.Config, error) {
	if path := ctx.String(configFlag.Name); path != "" {
		return genesis.Load(path)
	}
	return genesis.NewDevnet(), nil
}

type stores struct {
	dir    string
	mainDB *lvldb.LevelDB
	logDB  *logdb.LogDB
}

func (s *stores) Close() {
	if s.logDB != nil {
		logger.Info("closing log database...")
		if err := s.logDB.Close(); err != nil {
			logger.Warn("failed to close log database", "err", err)
		}
	}
	logger.Info("closing main database...")
	if err := s.mainDB.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func openStores(ctx *cli.Context) (*stores, error) {
	skipLogs := ctx.Bool(skipLogsFlag.Name)
	if !ctx.Bool(persistFlag.Name) {
		mainDB, err := lvldb.NewMem()
		if err != nil {
			return nil, errors.Wrap(err, "open main database")
		}
		s := &stores{dir: "Memory", mainDB: mainDB}
		if !skipLogs {
			if s.logDB, err = logdb.NewMem(); err != nil {
				mainDB.Close()
				return nil, errors.Wrap(err, "open log database")
			}
		}
		return s, nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, fmt.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	cacheMB := normalizeCacheSize(int(ctx.Uint64(cacheFlag.Name)))
	logger.Debug("cache size(MB)", "size", cacheMB)
	fdCache := suggestFDCache()
	logger.Debug("fd cache", "n", fdCache)

	dir := filepath.Join(dataDir, "main.db")
	mainDB, err := lvldb.New(dir, lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: fdCache,
		SyncWrites:             ctx.Bool(syncWritesFlag.Name),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open main database [%v]", dir)
	}
	s := &stores{dir: dataDir, mainDB: mainDB}
	if !skipLogs {
		dir := filepath.Join(dataDir, "logs.db")
		if s.logDB, err = logdb.New(dir); err != nil {
			mainDB.Close()
			return nil, errors.Wrapf(err, "open log database [%v]", dir)
		}
	}
	return s, nil
}

// normalizeCacheSize keeps the cache between 16MB and half of the physical memory.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 16 {
		sizeMB = 16
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem:", "err", err)
	} else {
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

func suggestFDCache() int {
	limit, err := fdlimit.Current()
	if err != nil {
		logger.Warn("failed to get fd limit", "err", err)
		return 500
	}
	if limit <= 1024 {
		logger.Warn("low fd limit, increase it if possible", "limit", limit)
	}
	return min(limit/2, 5120)
}

// initLedger applies the genesis unless the store already carries a ledger.
func initLedger(gene *genesis.Config, s *stores) (*ledger.Ledger, error) {
	l := ledger.New(s.mainDB, s.logDB)
	ok, err := l.Initialized()
	if err != nil {
		return nil, errors.WithMessage(err, "read ledger")
	}
	if ok {
		seq, err := l.Seq()
		if err != nil {
			return nil, errors.WithMessage(err, "read ledger")
		}
		logger.Info("ledger loaded", "seq", seq)
		return l, nil
	}
	if _, err := l.Execute("genesis", gene.Build); err != nil {
		return nil, errors.WithMessage(err, "apply genesis")
	}
	logger.Info("genesis applied", "owner", gene.Owner, "defaultDelegatee", gene.DefaultDelegatee)
	return l, nil
}

func printStartupMessage(gene *genesis.Config, l *ledger.Ledger, dataDir, apiURL, metricsURL, adminURL string) error {
	var (
		owner  thor.Address
		totals string
	)
	seq, err := l.Seq()
	if err != nil {
		return err
	}
	if err := l.View(func(c *builtin.Contracts) error {
		var err error
		if owner, err = c.Liquid.Owner(); err != nil {
			return err
		}
		t, err := c.Liquid.Totals()
		if err != nil {
			return err
		}
		totals = fmt.Sprintf("stake %v shares %v", t.Stake, t.Shares)
		return nil
	}); err != nil {
		return err
	}

	optional := func(url string) string {
		if url == "" {
			return "Disabled"
		}
		return url
	}

	fmt.Printf(`Starting %v
    Owner         [ %v ]
    Sequence      [ %v ]
    Totals        [ %v ]
    Faucet        [ %v ]
    Data dir      [ %v ]
    API portal    [ %v (openapi v%v) ]
    Metrics       [ %v ]
    Admin         [ %v ]
`,
		"lstnode "+fullVersion(),
		owner,
		seq,
		totals,
		gene.Faucet,
		dataDir,
		apiURL,
		doc.Version(),
		optional(metricsURL),
		optional(adminURL),
	)
	return nil
}

// copy from go-ethereum
func defaultDataDir() string {
	if home := homeDir(); home != "" {
		switch runtime.GOOS {
		case "darwin":
			return filepath.Join(home, "Library", "Application Support", "org.vechain.liquid")
		case "windows":
			return filepath.Join(home, "AppData", "Roaming", "org.vechain.liquid")
		default:
			return filepath.Join(home, ".org.vechain.liquid")
		}
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}
