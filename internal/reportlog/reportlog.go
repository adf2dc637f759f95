// Package reportlog keeps a daily JSON-lines journal of delivered
// account updates under AGENT_LOG_DIR (default "logs").
package reportlog

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"account-monitor/internal/types"
)

const timeLayout = "2006-01-02 15:04:05"

var mu sync.Mutex

// Entry is one journal line: the delivered payload plus the local time.
type Entry struct {
	Time string `json:"time"`
	types.ReportPayload
}

// At parses Time in loc.
func (e Entry) At(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(timeLayout, e.Time, loc)
}

func Dir() string {
	if v := os.Getenv("AGENT_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func DailyFilepath(t time.Time) string {
	return filepath.Join(Dir(), t.Format("2006-01-02")+".txt")
}

// AppendAt journals p in the file of now's day.
func AppendAt(now time.Time, p types.ReportPayload) error {
	mu.Lock()
	defer mu.Unlock()

	path := DailyFilepath(now)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := json.Marshal(Entry{Time: now.Format(timeLayout), ReportPayload: p})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// ReadDay returns the entries journaled on t's day. A missing file is an
// empty day; malformed lines are skipped.
func ReadDay(t time.Time) ([]Entry, error) {
	mu.Lock()
	defer mu.Unlock()

	f, err := os.Open(DailyFilepath(t))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

// CompressOlder gzips journal files not modified for retentionDays and
// removes the originals. Non-positive retention disables it.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)

	mu.Lock()
	defer mu.Unlock()

	return filepath.WalkDir(Dir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, err := d.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, err := os.Stat(gz); err == nil {
			_ = os.Remove(p)
			return nil
		}
		if err := gzipFile(p, gz); err != nil {
			_ = os.Remove(gz)
			return nil
		}
		_ = os.Remove(p)
		return nil
	})
}

func gzipFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return err
	}
	if err := gw.Close(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
