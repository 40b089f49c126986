// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command aardwolf-llvm is the driver collaborator of spec.md §6: it
// parses one LLVM bitcode module, runs the StatementDetector, writes
// the static artifact, optionally instruments the module, and writes
// the rewritten bitcode.
//
// Grounded on the teacher's cmd/dependencies/main.go (flag layout,
// doMain error-returning wrapper, formatutil progress lines) with the
// Go-SSA program load replaced by internal/ir.ParseBitcodeFile and the
// dependency analysis replaced by the statement/encode/instrument
// pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/aardwolf-fl/llvm-frontend/internal/config"
	"github.com/aardwolf-fl/llvm-frontend/internal/encode"
	"github.com/aardwolf-fl/llvm-frontend/internal/formatutil"
	"github.com/aardwolf-fl/llvm-frontend/internal/instrument"
	"github.com/aardwolf-fl/llvm-frontend/internal/ir"
	"github.com/aardwolf-fl/llvm-frontend/internal/repository"
	"github.com/aardwolf-fl/llvm-frontend/internal/statement"
)

var (
	outputDir              string
	disableInstrumentation bool
	configFile             string
)

func init() {
	flag.StringVar(&outputDir, "o", config.DefaultOutputDir, "output directory")
	flag.BoolVar(&disableInstrumentation, "disable-instrumentation", false, "skip the DynamicInstrumenter and !instrumented.bc output")
	flag.StringVar(&configFile, "config", "", "optional YAML configuration file")
}

const usage = `Extract a program dependence graph from LLVM bitcode and instrument it for runtime tracing.

Usage:
  aardwolf-llvm [options] <module.bc>

Use the -help flag to display the options.
`

func main() {
	if err := doMain(); err != nil {
		fmt.Fprintf(os.Stderr, "aardwolf-llvm: %s\n", err)
		os.Exit(1)
	}
}

func doMain() error {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
	bitcodePath := flag.Arg(0)

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if outputDir != config.DefaultOutputDir {
		cfg.OutputDir = outputDir
	}
	cfg.DisableInstrumentation = cfg.DisableInstrumentation || disableInstrumentation
	cfg.ApplyEnv()

	log := config.NewLogGroup(cfg)

	log.Infof(formatutil.Faint("Reading %s")+"\n", bitcodePath)
	m, err := ir.ParseBitcodeFile(bitcodePath)
	if err != nil {
		return err
	}
	defer m.Dispose()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", cfg.OutputDir, err)
	}

	log.Infof(formatutil.Faint("Detecting statements") + "\n")
	repo := repository.New()
	repo.SetFileIdentityResolver(statFileIdentity)
	statement.Run(m, repo)

	base := moduleBasename(bitcodePath)
	artifactPath := filepath.Join(cfg.OutputDir, base+".aard")

	log.Infof(formatutil.Faint("Writing %s")+"\n", artifactPath)
	if err := encode.WriteModule(repo, artifactPath); err != nil {
		log.Errorf("%s\n", err)
		return err
	}

	if cfg.DisableInstrumentation {
		log.Debugf("instrumentation disabled, skipping !instrumented.bc\n")
		return nil
	}

	log.Infof(formatutil.Faint("Instrumenting module") + "\n")
	if err := instrument.Run(m, repo); err != nil {
		return err
	}

	instrumentedPath := filepath.Join(cfg.OutputDir, "!instrumented.bc")
	log.Infof(formatutil.Faint("Writing %s")+"\n", instrumentedPath)
	if err := m.WriteBitcodeToFile(instrumentedPath); err != nil {
		return fmt.Errorf("writing instrumented bitcode: %w", err)
	}

	return nil
}

// moduleBasename derives the artifact's basename from the input path,
// stripping a trailing .bc/.ll extension if present (spec.md §6:
// "<module-basename>.aard").
func moduleBasename(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext == ".bc" || ext == ".ll" {
		return strings.TrimSuffix(base, ext)
	}
	return base
}

// statFileIdentity resolves a debug-info source path to its POSIX
// device+inode pair (spec.md §3's "inode on POSIX" example), the
// filesystem identity Repository.FileID prefers over its fallback
// counter. Paths that don't stat (moved/deleted since compilation,
// relative paths the current working directory can't resolve) report
// ok=false so the Repository falls back to the counter instead.
func statFileIdentity(path string) (uint64, bool) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, false
	}
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, false
	}
	return uint64(st.Dev)<<32 ^ st.Ino, true
}
