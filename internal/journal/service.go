package journal

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cleared-dev/statements/internal/id"
	"github.com/cleared-dev/statements/internal/model"
)

// Service reads and posts vouchers under a book directory laid out as
// <root>/YYYY/MM/journal.csv.
type Service struct {
	bookRoot string
	chart    ChartChecker
}

// NewService creates a journal Service.
func NewService(bookRoot string, chart ChartChecker) *Service {
	return &Service{bookRoot: bookRoot, chart: chart}
}

// PostParams holds parameters for posting a voucher.
type PostParams struct {
	Date   time.Time
	Status model.VoucherStatus
	Lines  []model.VoucherLine
}

// Post assigns the next voucher ID for the month, validates the voucher
// together with the month's existing vouchers, and appends it to journal.csv.
// Returns the voucher ID.
func (s *Service) Post(params PostParams) (string, error) {
	year := params.Date.Year()
	month := int(params.Date.Month())

	existing, err := s.ReadMonth(year, month)
	if err != nil {
		return "", err
	}

	v, err := Prepare(existing, s.chart, params)
	if err != nil {
		return "", err
	}

	journalPath := s.monthPath(year, month)
	if err := os.MkdirAll(filepath.Dir(journalPath), 0o755); err != nil {
		return "", fmt.Errorf("creating journal dir: %w", err)
	}

	isNew := false
	if _, err := os.Stat(journalPath); errors.Is(err, fs.ErrNotExist) {
		isNew = true
	}

	f, err := os.OpenFile(journalPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return "", fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	if isNew {
		if _, err := fmt.Fprintln(f, Header); err != nil {
			return "", fmt.Errorf("writing header: %w", err)
		}
	}

	if err := AppendVouchers(f, []model.Voucher{v}); err != nil {
		return "", fmt.Errorf("appending voucher: %w", err)
	}

	return v.ID, nil
}

// Prepare builds the voucher params describe as the next voucher of its
// month and validates it together with existing, the month's vouchers so far.
func Prepare(existing []model.Voucher, chart ChartChecker, params PostParams) (model.Voucher, error) {
	year := params.Date.Year()
	month := int(params.Date.Month())

	if len(params.Lines) < 2 {
		return model.Voucher{}, fmt.Errorf("voucher needs at least 2 lines, got %d", len(params.Lines))
	}

	status := params.Status
	if status == "" {
		status = model.StatusDraft
	}

	seq, err := nextSeq(existing)
	if err != nil {
		return model.Voucher{}, err
	}

	v := model.Voucher{
		ID:     id.FormatVoucherID(year, month, seq),
		Date:   model.Day(params.Date),
		Status: status,
		Lines:  params.Lines,
	}

	// Validate the whole month so sequence gaps surface too.
	all := append(existing[:len(existing):len(existing)], v)
	if verrs := ValidateVouchers(all, chart, year, month); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return model.Voucher{}, fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
	}
	return v, nil
}

// ReadMonth reads all vouchers for a given year/month.
func (s *Service) ReadMonth(year, month int) ([]model.Voucher, error) {
	path := s.monthPath(year, month)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer f.Close()

	vouchers, err := ReadVouchers(f)
	if err != nil {
		return nil, fmt.Errorf("reading journal %s: %w", path, err)
	}
	return vouchers, nil
}

// ReadRange reads every month directory that overlaps w and returns the
// vouchers dated inside it, ordered by date then ID.
func (s *Service) ReadRange(w model.Window) ([]model.Voucher, error) {
	months, err := s.Months()
	if err != nil {
		return nil, err
	}

	var result []model.Voucher
	for _, ym := range months {
		if !w.Overlaps(model.Month(ym[0], time.Month(ym[1]))) {
			continue
		}
		vouchers, err := s.ReadMonth(ym[0], ym[1])
		if err != nil {
			return nil, err
		}
		for _, v := range vouchers {
			if w.Contains(v.Date) {
				result = append(result, v)
			}
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.Before(result[j].Date)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Months lists the [year, month] pairs that have a journal directory, in
// chronological order.
func (s *Service) Months() ([][2]int, error) {
	years, err := os.ReadDir(s.bookRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("listing book %s: %w", s.bookRoot, err)
	}

	var result [][2]int
	for _, y := range years {
		year, ok := numericDir(y, 4)
		if !ok {
			continue
		}
		months, err := os.ReadDir(filepath.Join(s.bookRoot, y.Name()))
		if err != nil {
			return nil, fmt.Errorf("listing year %s: %w", y.Name(), err)
		}
		for _, m := range months {
			month, ok := numericDir(m, 2)
			if !ok || month < 1 || month > 12 {
				continue
			}
			result = append(result, [2]int{year, month})
		}
	}
	return result, nil
}

// NextVoucherSeq returns the next available sequence number for a month.
func (s *Service) NextVoucherSeq(year, month int) (int, error) {
	vouchers, err := s.ReadMonth(year, month)
	if err != nil {
		return 0, err
	}
	return nextSeq(vouchers)
}

func nextSeq(vouchers []model.Voucher) (int, error) {
	maxSeq := 0
	for _, v := range vouchers {
		_, _, seq, err := id.ParseVoucherID(v.ID)
		if err != nil {
			continue
		}
		if seq > maxSeq {
			maxSeq = seq
		}
	}
	return maxSeq + 1, nil
}

func numericDir(e fs.DirEntry, width int) (int, bool) {
	if !e.IsDir() || len(e.Name()) != width {
		return 0, false
	}
	n, err := strconv.Atoi(e.Name())
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *Service) monthPath(year, month int) string {
	return filepath.Join(s.bookRoot, fmt.Sprintf("%04d", year), fmt.Sprintf("%02d", month), "journal.csv")
}
