package question

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

const maxLineBytes = 4 << 20

// LoadQuestions reads a JSONL question store. Extra fields are ignored; blank
// lines are skipped; duplicate question texts are rejected.
func LoadQuestions(path string) ([]Question, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open questions: %w", err)
	}
	defer file.Close()
	return ParseQuestions(file, path)
}

// ParseQuestions decodes questions from r; name is used in error messages.
func ParseQuestions(r io.Reader, name string) ([]Question, error) {
	collector := &issueCollector{path: name}
	seen := map[string]int{}
	var questions []Question
	err := scanJSONL(r, func(line int, data []byte) {
		var q Question
		if err := json.Unmarshal(data, &q); err != nil {
			collector.add(line, "json", err.Error())
			return
		}
		if strings.TrimSpace(q.Text) == "" {
			collector.add(line, "question", "is required")
			return
		}
		if strings.TrimSpace(q.Answer) == "" {
			collector.add(line, "answer", "is required")
		}
		if first, exists := seen[q.Text]; exists {
			collector.add(line, "question", fmt.Sprintf("duplicate of line %d", first))
			return
		}
		seen[q.Text] = line
		questions = append(questions, q)
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := collector.result(); err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%s: no questions found", name)
	}
	return questions, nil
}

// LoadModels reads a JSONL model roster; each entry needs a unique name.
func LoadModels(path string) ([]Model, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open models: %w", err)
	}
	defer file.Close()
	return ParseModels(file, path)
}

// ParseModels decodes a model roster from r.
func ParseModels(r io.Reader, name string) ([]Model, error) {
	collector := &issueCollector{path: name}
	seen := map[string]int{}
	var models []Model
	err := scanJSONL(r, func(line int, data []byte) {
		var m Model
		if err := json.Unmarshal(data, &m); err != nil {
			collector.add(line, "json", err.Error())
			return
		}
		m.Name = strings.TrimSpace(m.Name)
		if m.Name == "" {
			collector.add(line, "name", "is required")
			return
		}
		if first, exists := seen[m.Name]; exists {
			collector.add(line, "name", fmt.Sprintf("duplicate of line %d", first))
			return
		}
		seen[m.Name] = line
		models = append(models, m)
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if err := collector.result(); err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%s: no models found", name)
	}
	return models, nil
}

func scanJSONL(r io.Reader, handle func(line int, data []byte)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		handle(line, data)
	}
	return scanner.Err()
}
