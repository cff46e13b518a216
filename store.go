package hub

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
)

// Store persists the collections as human-readable JSON files in one
// directory. Every mutation rewrites the whole file (load, modify, save);
// concurrent writers are last-writer-wins by design. Writes go through a
// temporary file renamed into place so a crash never leaves a torn file.
type Store struct {
	dir string
}

// NewStore creates the data directory if needed and returns a store on it.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StoreError{Op: "create", Path: dir, Err: err}
	}
	return &Store{dir: dir}, nil
}

func (s *Store) usersPath() string      { return filepath.Join(s.dir, "users.json") }
func (s *Store) portfoliosPath() string { return filepath.Join(s.dir, "portfolios.json") }
func (s *Store) ratesPath() string      { return filepath.Join(s.dir, "rates.json") }
func (s *Store) historyPath() string    { return filepath.Join(s.dir, "exchange_rates.json") }

// load decodes the JSON file at path into v; a missing file leaves v as-is
// and returns false. Unknown fields in the file are ignored.
func (s *Store) load(path string, v any) (bool, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &StoreError{Op: "read", Path: path, Err: err}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, &StoreError{Op: "parse", Path: path, Err: err}
	}
	return true, nil
}

// save writes v as indented JSON through a temp file and an atomic rename.
func (s *Store) save(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return &StoreError{Op: "encode", Path: path, Err: err}
	}
	tmp, err := os.CreateTemp(s.dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &StoreError{Op: "write", Path: path, Err: err}
	}
	_, werr := tmp.Write(append(data, '\n'))
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(tmp.Name())
		return &StoreError{Op: "write", Path: path, Err: errors.Join(werr, cerr)}
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return &StoreError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// userRecord is the persisted shape of a User.
type userRecord struct {
	UserID           int    `json:"user_id"`
	Username         string `json:"username"`
	HashedPassword   string `json:"hashed_password"`
	Salt             string `json:"salt"`
	RegistrationDate string `json:"registration_date"`
}

// LoadUsers reads the whole users collection; a missing file is empty.
func (s *Store) LoadUsers() ([]*User, error) {
	var records []userRecord
	if _, err := s.load(s.usersPath(), &records); err != nil {
		return nil, err
	}
	users := make([]*User, 0, len(records))
	for _, r := range records {
		if r.UserID < 1 || r.Username == "" {
			return nil, &StoreError{Op: "parse", Path: s.usersPath(),
				Err: fmt.Errorf("invalid user record id=%d username=%q", r.UserID, r.Username)}
		}
		registered, err := time.Parse(time.RFC3339, r.RegistrationDate)
		if err != nil {
			// tolerate second-precision timestamps without zone
			registered, _ = time.Parse("2006-01-02T15:04:05", r.RegistrationDate)
		}
		users = append(users, &User{
			ID:             r.UserID,
			Username:       r.Username,
			HashedPassword: r.HashedPassword,
			Salt:           r.Salt,
			RegisteredAt:   registered,
		})
	}
	return users, nil
}

// SaveUsers overwrites the whole users collection.
func (s *Store) SaveUsers(users []*User) error {
	records := make([]userRecord, 0, len(users))
	for _, u := range users {
		records = append(records, userRecord{
			UserID:           u.ID,
			Username:         u.Username,
			HashedPassword:   u.HashedPassword,
			Salt:             u.Salt,
			RegistrationDate: u.RegisteredAt.Format(time.RFC3339),
		})
	}
	return s.save(s.usersPath(), records)
}

// walletRecord keeps only the balance; the currency code is the map key.
type walletRecord struct {
	Balance decimal.Decimal `json:"balance"`
}

type portfolioRecord struct {
	UserID  int                     `json:"user_id"`
	Wallets map[string]walletRecord `json:"wallets"`
}

// LoadPortfolios reads the whole portfolios collection.
func (s *Store) LoadPortfolios() ([]*Portfolio, error) {
	var records []portfolioRecord
	if _, err := s.load(s.portfoliosPath(), &records); err != nil {
		return nil, err
	}
	portfolios := make([]*Portfolio, 0, len(records))
	for _, r := range records {
		p := NewPortfolio(r.UserID)
		for code, w := range r.Wallets {
			if w.Balance.IsNegative() {
				return nil, &StoreError{Op: "parse", Path: s.portfoliosPath(),
					Err: fmt.Errorf("negative balance %s for wallet %s of user %d", w.Balance, code, r.UserID)}
			}
			p.wallets[code] = &Wallet{CurrencyCode: code, Balance: w.Balance}
		}
		portfolios = append(portfolios, p)
	}
	return portfolios, nil
}

// SavePortfolios overwrites the whole portfolios collection.
func (s *Store) SavePortfolios(portfolios []*Portfolio) error {
	records := make([]portfolioRecord, 0, len(portfolios))
	for _, p := range portfolios {
		r := portfolioRecord{UserID: p.UserID, Wallets: make(map[string]walletRecord, p.Len())}
		for _, w := range p.Wallets() {
			r.Wallets[w.CurrencyCode] = walletRecord{Balance: w.Balance}
		}
		records = append(records, r)
	}
	return s.save(s.portfoliosPath(), records)
}

// LoadRateCache reads the rate cache snapshot; a missing file is an empty
// snapshot, not an error.
func (s *Store) LoadRateCache() (*RateSnapshot, error) {
	snapshot := NewRateSnapshot()
	if _, err := s.load(s.ratesPath(), snapshot); err != nil {
		return nil, err
	}
	if snapshot.Pairs == nil {
		snapshot.Pairs = make(map[string]RateEntry)
	}
	return snapshot, nil
}

// SaveRateCache overwrites the rate cache snapshot.
func (s *Store) SaveRateCache(snapshot *RateSnapshot) error {
	return s.save(s.ratesPath(), snapshot)
}

// AppendRateHistory appends records to the audit trail. Existing records
// are never mutated or removed; an unreadable history file is replaced
// rather than failing the refresh.
func (s *Store) AppendRateHistory(records ...RateHistoryRecord) error {
	var history []RateHistoryRecord
	s.load(s.historyPath(), &history) // best effort: corrupt history restarts the file
	history = append(history, records...)
	return s.save(s.historyPath(), history)
}

// LoadRateHistory reads the full audit trail.
func (s *Store) LoadRateHistory() ([]RateHistoryRecord, error) {
	var history []RateHistoryRecord
	if _, err := s.load(s.historyPath(), &history); err != nil {
		return nil, err
	}
	return history, nil
}
