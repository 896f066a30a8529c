// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const envVar = "CASHTIMER_ENV"

// Paths holds all application path configurations.
type Paths struct {
	appDir         string
	configFileName string
	boltFileName   string
	sqliteFileName string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	boltFilePath   string
	sqliteFilePath string
	logFilePath    string
}

var (
	paths *Paths
	once  sync.Once
)

// Initialize must be called once at program startup.
func Initialize() error {
	var initErr error

	once.Do(func() {
		p := &Paths{
			appDir:         "cashtimer",
			configFileName: "config.yml",
			boltFileName:   "cashtimer.db",
			sqliteFileName: "cashtimer.sqlite",
			logFileName:    "cashtimer.log",
		}

		p.applyEnvironmentOverrides(os.Getenv(envVar))

		initErr = p.computePaths()
		if initErr == nil {
			paths = p
		}
	})

	return initErr
}

// Must panics if paths haven't been initialized.
func Must() *Paths {
	if paths == nil {
		panic("pathutil.Initialize() must be called before accessing paths")
	}

	return paths
}

func ConfigFilePath() string {
	return Must().configFilePath
}

// DBFilePath returns the database location for the given store driver.
func DBFilePath(driver string) string {
	if driver == "sqlite" {
		return Must().sqliteFilePath
	}

	return Must().boltFilePath
}

func LogFilePath() string {
	return Must().logFilePath
}

// applyEnvironmentOverrides keeps the files of separate environments (such as
// "dev") apart from each other.
func (p *Paths) applyEnvironmentOverrides(env string) {
	env = strings.TrimSpace(env)
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.boltFileName = fmt.Sprintf("cashtimer_%s.db", env)
	p.sqliteFileName = fmt.Sprintf("cashtimer_%s.sqlite", env)
	p.logFileName = fmt.Sprintf("cashtimer_%s.log", env)
}

func (p *Paths) computePaths() error {
	var err error

	p.configFilePath, err = xdg.ConfigFile(filepath.Join(p.appDir, p.configFileName))
	if err != nil {
		return err
	}

	dataDir, err := xdg.DataFile(p.appDir)
	if err != nil {
		return err
	}

	p.boltFilePath = filepath.Join(dataDir, p.boltFileName)
	p.sqliteFilePath = filepath.Join(dataDir, p.sqliteFileName)
	p.logFilePath = filepath.Join(dataDir, "log", p.logFileName)

	return nil
}
