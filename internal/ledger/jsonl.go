package ledger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
)

const maxRecordBytes = 16 << 20

// JSONL is a newline-delimited JSON ledger. The file is held under an
// exclusive lock while open; every Append is fsynced before returning.
type JSONL struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	repaired int64
}

// OpenJSONL opens or creates the ledger at path and repairs a torn final line.
func OpenJSONL(path string) (*JSONL, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create ledger dir: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if err := lockFile(file); err != nil {
		_ = file.Close()
		if errors.Is(err, ErrLocked) {
			return nil, fmt.Errorf("%s: %w", path, ErrLocked)
		}
		return nil, fmt.Errorf("lock ledger: %w", err)
	}
	repaired, err := repairTail(file)
	if err != nil {
		_ = unlockFile(file)
		_ = file.Close()
		return nil, fmt.Errorf("repair ledger: %w", err)
	}
	return &JSONL{path: path, file: file, repaired: repaired}, nil
}

// Path returns the ledger file path.
func (l *JSONL) Path() string {
	return l.path
}

// Repaired returns the number of bytes dropped from a torn final line on open.
func (l *JSONL) Repaired() int64 {
	return l.repaired
}

// Load replays every line in the file.
func (l *JSONL) Load(ctx context.Context) (KeySet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	info, err := l.file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat ledger: %w", err)
	}
	return scanKeys(ctx, io.NewSectionReader(l.file, 0, info.Size()), l.path)
}

// ReadJSONLKeys loads the keys in path without locking, creating, or
// repairing the file. A torn final line is ignored. A missing file yields an
// empty set.
func ReadJSONLKeys(ctx context.Context, path string) (KeySet, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return KeySet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat ledger: %w", err)
	}
	size := info.Size()
	end, err := completeEnd(file, size)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return scanKeys(ctx, io.NewSectionReader(file, 0, end), path)
}

// completeEnd returns the offset after the last complete record. A trailing
// fragment counts only when it is already valid JSON.
func completeEnd(file *os.File, size int64) (int64, error) {
	if size == 0 {
		return 0, nil
	}
	start, err := lastLineStart(file, size)
	if err != nil {
		return 0, err
	}
	if start == size {
		return size, nil
	}
	tail := make([]byte, size-start)
	if _, err := file.ReadAt(tail, start); err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	if json.Valid(bytes.TrimSpace(tail)) {
		return size, nil
	}
	return start, nil
}

func scanKeys(ctx context.Context, r io.Reader, path string) (KeySet, error) {
	keys := KeySet{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
	line := 0
	for scanner.Scan() {
		line++
		if line%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var entry struct {
			Question     *string `json:"question"`
			Model        *string `json:"model"`
			SuggestEmpty *bool   `json:"suggest_empty"`
		}
		if err := json.Unmarshal(data, &entry); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, line, err)
		}
		if entry.Question == nil || entry.Model == nil || entry.SuggestEmpty == nil {
			return nil, fmt.Errorf("%s line %d: record is missing question, model, or suggest_empty", path, line)
		}
		keys.Add(Key{Question: *entry.Question, Model: *entry.Model, SuggestEmpty: *entry.SuggestEmpty})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}
	return keys, nil
}

// Append writes one line per record in a single write and fsyncs the file.
func (l *JSONL) Append(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	for _, record := range records {
		if err := encoder.Encode(record); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := l.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	if err := l.file.Sync(); err != nil {
		return fmt.Errorf("sync ledger: %w", err)
	}
	return nil
}

// Close releases the lock and closes the file.
func (l *JSONL) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil {
		return nil
	}
	unlockErr := unlockFile(l.file)
	closeErr := l.file.Close()
	l.file = nil
	if closeErr != nil {
		return closeErr
	}
	return unlockErr
}

// repairTail makes the file end on a line boundary. A trailing fragment that
// is a complete JSON value gets its missing newline; anything else is cut.
func repairTail(file *os.File) (int64, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, err
	}
	size := info.Size()
	if size == 0 {
		return 0, nil
	}
	start, err := lastLineStart(file, size)
	if err != nil {
		return 0, err
	}
	if start == size {
		return 0, nil
	}
	tail := make([]byte, size-start)
	if _, err := file.ReadAt(tail, start); err != nil {
		return 0, err
	}
	if json.Valid(bytes.TrimSpace(tail)) {
		if _, err := file.Write([]byte("\n")); err != nil {
			return 0, err
		}
		return 0, file.Sync()
	}
	if err := file.Truncate(start); err != nil {
		return 0, err
	}
	if err := file.Sync(); err != nil {
		return 0, err
	}
	return size - start, nil
}

// lastLineStart returns the offset just after the final newline, or 0.
func lastLineStart(file *os.File, size int64) (int64, error) {
	const chunk = 64 * 1024
	buf := make([]byte, chunk)
	end := size
	for end > 0 {
		begin := end - chunk
		if begin < 0 {
			begin = 0
		}
		n, err := file.ReadAt(buf[:end-begin], begin)
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if idx := bytes.LastIndexByte(buf[:n], '\n'); idx >= 0 {
			return begin + int64(idx) + 1, nil
		}
		end = begin
	}
	return 0, nil
}

var _ Ledger = (*JSONL)(nil)
