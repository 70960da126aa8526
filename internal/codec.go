package internal

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// Identifier opens every profile file
var Identifier = [4]byte{'F', 'P', 0, 0}

// byteOrder is fixed so files move between hosts
var byteOrder = binary.LittleEndian

// reserveLimit caps how many records Decode preallocates per category, so a
// corrupt count fails on a short read instead of a huge allocation
const reserveLimit = 1024

type fileHeader struct {
	Identifier     [4]byte
	AssetCount     uint32
	LiabilityCount uint32
	ExpenseCount   uint32
}

// asset and liability records are padded to 8-byte alignment:
// 64 + 8 + 4 + 4 = 80 bytes
type assetRecord struct {
	Description Description
	Amount      float64
	Class       uint32
	_           [4]byte
}

type liabilityRecord struct {
	Description Description
	Amount      float64
	Class       uint32
	_           [4]byte
}

type expenseRecord struct {
	Description Description
	Amount      float64
}

type fileTrailer struct {
	TotalAssets        float64
	TotalLiabilities   float64
	TotalExpenses      float64
	MonthlyIncome      float64
	DisposableIncome   float64
	NetWorth           float64
	Goal               float64
	Flags              uint16
	CreditScore        uint16
	CreditScoreUpdated uint32
	LastUpdated        uint32
}

// Encode writes p in the fixed binary profile layout
func Encode(w io.Writer, p *Profile) error {
	bw := bufio.NewWriter(w)

	header := fileHeader{
		Identifier:     Identifier,
		AssetCount:     uint32(p.assets.Len()),
		LiabilityCount: uint32(p.liabilities.Len()),
		ExpenseCount:   uint32(p.expenses.Len()),
	}
	if err := write(bw, "header", &header); err != nil {
		return err
	}

	for i, a := range p.assets.All() {
		rec := assetRecord{Description: a.description, Amount: a.amount, Class: uint32(a.Class)}
		if err := write(bw, fmt.Sprintf("asset %d", i), &rec); err != nil {
			return err
		}
	}
	for i, l := range p.liabilities.All() {
		rec := liabilityRecord{Description: l.description, Amount: l.amount, Class: uint32(l.Class)}
		if err := write(bw, fmt.Sprintf("liability %d", i), &rec); err != nil {
			return err
		}
	}
	for i, e := range p.expenses.All() {
		rec := expenseRecord{Description: e.description, Amount: e.amount}
		if err := write(bw, fmt.Sprintf("expense %d", i), &rec); err != nil {
			return err
		}
	}

	trailer := fileTrailer{
		TotalAssets:        p.totalAssets,
		TotalLiabilities:   p.totalLiabilities,
		TotalExpenses:      p.totalExpenses,
		MonthlyIncome:      p.monthlyIncome,
		DisposableIncome:   p.disposableIncome,
		NetWorth:           p.netWorth,
		Goal:               p.goal,
		Flags:              uint16(p.flags),
		CreditScore:        p.creditScore,
		CreditScoreUpdated: unixSeconds(p.creditScoreUpdated),
		LastUpdated:        unixSeconds(p.lastUpdated),
	}
	if err := write(bw, "trailer", &trailer); err != nil {
		return err
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing profile: %w", shortWrite(err))
	}
	return nil
}

// Decode reads a profile in the fixed binary layout. On any failure no
// profile is returned.
func Decode(r io.Reader) (*Profile, error) {
	br := bufio.NewReader(r)

	var header fileHeader
	if err := read(br, "header", &header); err != nil {
		return nil, err
	}
	if header.Identifier != Identifier {
		return nil, fmt.Errorf("identifier %q: %w", header.Identifier[:], ErrFormatMismatch)
	}

	p := New()
	p.assets.Grow(min(int(header.AssetCount), reserveLimit))
	p.liabilities.Grow(min(int(header.LiabilityCount), reserveLimit))
	p.expenses.Grow(min(int(header.ExpenseCount), reserveLimit))

	for i := range header.AssetCount {
		var rec assetRecord
		if err := read(br, fmt.Sprintf("asset %d", i), &rec); err != nil {
			return nil, err
		}
		a := p.assets.push()
		a.description = terminated(rec.Description)
		a.amount = rec.Amount
		a.Class = AssetClass(rec.Class)
	}
	for i := range header.LiabilityCount {
		var rec liabilityRecord
		if err := read(br, fmt.Sprintf("liability %d", i), &rec); err != nil {
			return nil, err
		}
		l := p.liabilities.push()
		l.description = terminated(rec.Description)
		l.amount = rec.Amount
		l.Class = LiabilityClass(rec.Class)
	}
	for i := range header.ExpenseCount {
		var rec expenseRecord
		if err := read(br, fmt.Sprintf("expense %d", i), &rec); err != nil {
			return nil, err
		}
		e := p.expenses.push()
		e.description = terminated(rec.Description)
		e.amount = rec.Amount
	}

	var trailer fileTrailer
	if err := read(br, "trailer", &trailer); err != nil {
		return nil, err
	}
	p.totalAssets = trailer.TotalAssets
	p.totalLiabilities = trailer.TotalLiabilities
	p.totalExpenses = trailer.TotalExpenses
	p.monthlyIncome = trailer.MonthlyIncome
	p.disposableIncome = trailer.DisposableIncome
	p.netWorth = trailer.NetWorth
	p.goal = trailer.Goal
	p.flags = Flags(trailer.Flags)
	p.creditScore = trailer.CreditScore
	p.creditScoreUpdated = time.Unix(int64(trailer.CreditScoreUpdated), 0)
	p.lastUpdated = time.Unix(int64(trailer.LastUpdated), 0)

	return p, nil
}

// Load reads the profile stored at path
func Load(path string) (*Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w: %w", path, ErrNotFound, err)
	}
	defer f.Close()

	p, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return p, nil
}

// Save writes p to path. The data goes to a temporary file in the same
// directory which is renamed over path only once fully written, so a failed
// save leaves any previous file untouched. A replaced file keeps its
// permissions; new files get 0644.
func Save(p *Profile, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	perm := fs.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting permissions of %s: %w", tmpName, err)
	}

	if err := Encode(tmp, p); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpName, path, err)
	}
	committed = true
	return nil
}

func write(w io.Writer, field string, v any) error {
	if err := binary.Write(w, byteOrder, v); err != nil {
		return fmt.Errorf("writing %s: %w", field, shortWrite(err))
	}
	return nil
}

func read(r io.Reader, field string, v any) error {
	if err := binary.Read(r, byteOrder, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("reading %s: %w", field, ErrTruncated)
		}
		return fmt.Errorf("reading %s: %w", field, err)
	}
	return nil
}

// shortWrite tags io.ErrShortWrite as truncation while keeping the cause
func shortWrite(err error) error {
	if errors.Is(err, io.ErrShortWrite) {
		return fmt.Errorf("%w: %w", ErrTruncated, err)
	}
	return err
}

// terminated forces the terminator byte of a decoded description
func terminated(d Description) Description {
	d[DescriptionSize-1] = 0
	return d
}

func unixSeconds(t time.Time) uint32 {
	s := t.Unix()
	if s < 0 {
		return 0
	}
	return uint32(s)
}
