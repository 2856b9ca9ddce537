package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sqlite3 "github.com/mutecomm/go-sqlcipher/v4"
)

const (
	// DefaultDatabasePath is the default location of the application database.
	DefaultDatabasePath = "./data/noteful.db"

	// MaxOpenConns is the maximum number of open connections.
	// SQLite is single-writer, so high connection counts are counterproductive.
	MaxOpenConns = 10

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns = 2
)

// Weights for the bm25 relevance ranking used by note search. Title matches
// count double, mirroring the text-index weights of the system this replaces.
const (
	TitleSearchWeight   = 2.0
	ContentSearchWeight = 1.0
)

// Store wraps the shared application database connection.
// It is an explicit handle: opened once at process start, injected into every
// service that needs it, and closed at shutdown.
type Store struct {
	db *sql.DB
}

// Options configures Open.
type Options struct {
	// Key, when non-empty, is a 64-hex-character SQLCipher key enabling
	// at-rest encryption of the database file.
	Key string
}

// Open opens (creating if necessary) the application database at path,
// applies the schema, and returns a ready Store.
func Open(path string, opts Options) (*Store, error) {
	if path == "" {
		path = DefaultDatabasePath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := path
	if opts.Key != "" {
		if len(opts.Key) != 64 {
			return nil, fmt.Errorf("database key must be 64 hex characters, got %d", len(opts.Key))
		}
		dsn = fmt.Sprintf("%s?_pragma_key=x'%s'&_pragma_cipher_page_size=4096", path, opts.Key)
	}
	dsn = appendSQLiteParams(dsn, sqliteCommonParams())

	sqlDB, err := sql.Open(SQLiteDriverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB.SetMaxOpenConns(MaxOpenConns)
	sqlDB.SetMaxIdleConns(MaxIdleConns)

	// A plain Ping does not touch pages, so a wrong key would go unnoticed
	// until the first real query. This forces a page read.
	var sqliteVersion string
	if err := sqlDB.QueryRow("SELECT sqlite_version()").Scan(&sqliteVersion); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("verify database connection: %w", err)
	}

	if _, err := sqlDB.Exec(Schema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{db: sqlDB}, nil
}

// NewStoreFromSQL wraps an existing sql.DB as a Store. The caller is
// responsible for having applied the schema.
func NewStoreFromSQL(sqlDB *sql.DB) *Store {
	return &Store{db: sqlDB}
}

// DB returns the underlying sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsDuplicateKey reports whether err is a unique-index violation from the
// store. Callers translate it to a typed conflict error instead of inspecting
// driver codes themselves.
func IsDuplicateKey(err error) bool {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		return serr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// EscapeFTSQuery converts free-text search input into safe FTS5 MATCH syntax.
// Bare words become prefix matches, quoted phrases are preserved, and
// punctuation that FTS5 treats as syntax is stripped. Adjacent terms combine
// with implicit AND; the filter vocabulary deliberately has no OR or negation.
// Returns "" when nothing searchable remains.
func EscapeFTSQuery(query string) string {
	query = strings.ReplaceAll(query, "\x00", "")

	var terms []string
	for _, tok := range tokenizeSearch(query) {
		if tok.isPhrase {
			if sanitizeFTSWord(tok.text) != "" {
				terms = append(terms, `"`+strings.ReplaceAll(tok.text, `"`, `""`)+`"`)
			}
			continue
		}
		if clean := sanitizeFTSWord(tok.text); clean != "" {
			terms = append(terms, clean+"*")
		}
	}
	return strings.Join(terms, " ")
}

// searchToken is a parsed token from free-text search input.
type searchToken struct {
	text     string // token text, without surrounding quotes for phrases
	isPhrase bool
}

// tokenizeSearch splits search input into tokens, preserving quoted phrases.
func tokenizeSearch(input string) []searchToken {
	var tokens []searchToken
	i := 0
	for i < len(input) {
		if input[i] == ' ' || input[i] == '\t' {
			i++
			continue
		}
		if input[i] == '"' {
			end := strings.IndexByte(input[i+1:], '"')
			if end >= 0 {
				tokens = append(tokens, searchToken{text: input[i+1 : i+1+end], isPhrase: true})
				i = i + 1 + end + 1
			} else {
				// Unclosed quote: treat rest as phrase
				tokens = append(tokens, searchToken{text: input[i+1:], isPhrase: true})
				break
			}
			continue
		}
		end := i + 1
		for end < len(input) && input[end] != ' ' && input[end] != '\t' && input[end] != '"' {
			end++
		}
		tokens = append(tokens, searchToken{text: input[i:end]})
		i = end
	}
	return tokens
}

// sanitizeFTSWord strips characters that cause FTS5 syntax errors.
// Keeps letters, digits, and underscore (safe in FTS5 tokens).
func sanitizeFTSWord(word string) string {
	clean := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r > 127 {
			return r
		}
		return -1
	}, word)
	return strings.ToLower(clean)
}

func sqliteCommonParams() string {
	// WAL + NORMAL provides good throughput while preserving safety.
	return "_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}

func appendSQLiteParams(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}
