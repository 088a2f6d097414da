/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package db

import (
	"strings"
)

// sqlSplitter walks a migration file and cuts it at top-level semicolons.
// Semicolons inside quotes, comments and dollar-quoted bodies are kept.
type sqlSplitter struct {
	src        string
	pos        int
	current    strings.Builder
	statements []string
}

func splitSQLStatements(content string) []string {
	s := &sqlSplitter{src: content}

	for s.pos < len(s.src) {
		s.step()
	}

	s.flush()

	return s.statements
}

func (s *sqlSplitter) step() {
	rest := s.src[s.pos:]

	switch {
	case strings.HasPrefix(rest, "--"):
		s.skipUntil("\n", true)
	case strings.HasPrefix(rest, "/*"):
		s.skipUntil("*/", false)
	case rest[0] == '\'' || rest[0] == '"':
		s.copyQuoted(rest[0])
	case rest[0] == '$':
		if tag := dollarTag(rest); tag != "" {
			s.copyDollarQuoted(tag)
			return
		}

		s.current.WriteByte('$')
		s.pos++
	case rest[0] == ';':
		s.flush()
		s.pos++
	default:
		s.current.WriteByte(rest[0])
		s.pos++
	}
}

// skipUntil drops a comment. Line comments keep their newline so the
// surrounding tokens stay separated.
func (s *sqlSplitter) skipUntil(end string, keepEnd bool) {
	idx := strings.Index(s.src[s.pos+2:], end)
	if idx < 0 {
		s.pos = len(s.src)
		return
	}

	s.pos += 2 + idx + len(end)

	if keepEnd {
		s.current.WriteString(end)
	}
}

func (s *sqlSplitter) copyQuoted(quote byte) {
	end := strings.IndexByte(s.src[s.pos+1:], quote)
	if end < 0 {
		s.current.WriteString(s.src[s.pos:])
		s.pos = len(s.src)

		return
	}

	next := s.pos + 1 + end + 1
	s.current.WriteString(s.src[s.pos:next])
	s.pos = next
}

func (s *sqlSplitter) copyDollarQuoted(tag string) {
	bodyStart := s.pos + len(tag)

	end := strings.Index(s.src[bodyStart:], tag)
	if end < 0 {
		s.current.WriteString(s.src[s.pos:])
		s.pos = len(s.src)

		return
	}

	next := bodyStart + end + len(tag)
	s.current.WriteString(s.src[s.pos:next])
	s.pos = next
}

func (s *sqlSplitter) flush() {
	if stmt := strings.TrimSpace(s.current.String()); stmt != "" {
		s.statements = append(s.statements, stmt)
	}

	s.current.Reset()
}

// dollarTag returns "$tag$" or "$$" when content starts with one.
func dollarTag(content string) string {
	for i := 1; i < len(content); i++ {
		ch := content[i]

		switch {
		case ch == '$':
			return content[:i+1]
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
			continue
		default:
			return ""
		}
	}

	return ""
}

func extractVersion(filename string) string {
	version, _, _ := strings.Cut(filename, "_")

	return version
}
