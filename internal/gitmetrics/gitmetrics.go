// Package gitmetrics collects repository history statistics for the
// recommendation synthesizer. Collection never fails: a directory that is
// not a Git repository, or any git invocation error, yields nil metrics.
package gitmetrics

import (
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kweller/codetriage/internal/contract"
	"github.com/kweller/codetriage/schema"
)

// Collection policy knobs.
const (
	HotSpotThreshold = 10  // Minimum change count to be considered a hot spot
	LargeFileLines   = 500 // Minimum line count to be considered a large file

	maxHotSpots   = 20
	maxLargeFiles = 20
)

// Collect analyzes the repository's history and working tree. It returns
// nil when the path is not inside a Git repository or history cannot be
// read; it never returns an error past its boundary.
func Collect(ctx context.Context, client contract.GitClient, repoPath string) *schema.GitMetrics {
	root, err := client.GetRepoRoot(ctx, repoPath)
	if err != nil {
		return nil
	}

	totalCommits, err := client.GetCommitCount(ctx, root)
	if err != nil {
		return nil
	}

	contributors, err := client.GetContributors(ctx, root)
	if err != nil {
		return nil
	}

	changeLog, err := client.GetChangeLog(ctx, root)
	if err != nil {
		return nil
	}

	metrics := &schema.GitMetrics{
		TotalCommits:      totalCommits,
		TotalContributors: len(contributors),
		HotSpots:          hotSpots(changeLog),
		LargeFiles:        largeFiles(root),
	}

	if last, err := client.GetLastCommitTime(ctx, root); err == nil {
		metrics.LastCommitDate = last.Format(time.RFC3339)
	}

	return metrics
}

// hotSpots counts per-file change frequency in the name-only log and
// returns the most frequently changed files above the threshold.
func hotSpots(changeLog []byte) []string {
	changes := make(map[string]int)
	for line := range strings.Lines(string(changeLog)) {
		file := strings.TrimSpace(line)
		if file == "" {
			continue
		}
		changes[file]++
	}

	files := make([]string, 0, len(changes))
	for file, count := range changes {
		if count >= HotSpotThreshold {
			files = append(files, file)
		}
	}
	// Most changed first; ties broken by name for determinism.
	sort.Slice(files, func(i, j int) bool {
		if changes[files[i]] != changes[files[j]] {
			return changes[files[i]] > changes[files[j]]
		}
		return files[i] < files[j]
	})

	if len(files) > maxHotSpots {
		files = files[:maxHotSpots]
	}
	return files
}

// largeFiles walks the working tree for oversized source files. Unreadable
// files and walk errors degrade to a shorter list, never a failure.
func largeFiles(root string) []string {
	var large []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if contract.ShouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if len(large) >= maxLargeFiles || !strings.HasSuffix(path, ".go") {
			return nil
		}

		lines, err := countLines(path)
		if err != nil || lines <= LargeFileLines {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		large = append(large, fmt.Sprintf("%s (%d lines)", filepath.ToSlash(rel), lines))
		return nil
	})
	return large
}

// countLines counts newline-delimited lines in a file.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	lines := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines++
	}
	return lines, scanner.Err()
}
