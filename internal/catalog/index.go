// Package catalog indexes a session's report snapshot for filtered lookups.
package catalog

import (
	"strings"
	"unicode"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/tilde-nya/akixi/pkg/akixi"
)

// Index is an immutable inverted index over a report list. Document IDs are
// positions in the list, so results come back in server order.
type Index struct {
	reports []*akixi.Report
	byID    map[string]uint32

	all      *roaring.Bitmap
	licensed *roaring.Bitmap
	binned   *roaring.Bitmap
	byType   map[akixi.ReportType]*roaring.Bitmap
	byToken  map[string]*roaring.Bitmap
}

// Filter selects reports. Zero-valued fields do not filter.
type Filter struct {
	Types    []akixi.ReportType // any of these types
	Licensed *bool
	Binned   *bool
	Text     string // every token must appear in the description
}

// New builds an index over reports.
func New(reports []*akixi.Report) *Index {
	idx := &Index{
		reports:  reports,
		byID:     make(map[string]uint32, len(reports)),
		all:      roaring.New(),
		licensed: roaring.New(),
		binned:   roaring.New(),
		byType:   make(map[akixi.ReportType]*roaring.Bitmap),
		byToken:  make(map[string]*roaring.Bitmap),
	}

	for i, r := range reports {
		docID := uint32(i)
		// First occurrence wins, as in Session.GetReport.
		if _, dup := idx.byID[r.ID()]; !dup {
			idx.byID[r.ID()] = docID
		}
		idx.all.Add(docID)

		if r.IsLicensed() {
			idx.licensed.Add(docID)
		}
		if r.IsBinned() {
			idx.binned.Add(docID)
		}

		bm, ok := idx.byType[r.Type()]
		if !ok {
			bm = roaring.New()
			idx.byType[r.Type()] = bm
		}
		bm.Add(docID)

		for _, tok := range Tokenize(r.Description() + " " + r.TypeName()) {
			tbm, ok := idx.byToken[tok]
			if !ok {
				tbm = roaring.New()
				idx.byToken[tok] = tbm
			}
			tbm.Add(docID)
		}
	}
	return idx
}

// Len returns the number of indexed reports.
func (idx *Index) Len() int {
	return len(idx.reports)
}

// Lookup returns the report with the given ID.
func (idx *Index) Lookup(id string) (*akixi.Report, bool) {
	docID, ok := idx.byID[id]
	if !ok {
		return nil, false
	}
	return idx.reports[docID], true
}

// Find returns the reports matching every set field of f, in server order.
func (idx *Index) Find(f Filter) []*akixi.Report {
	result := idx.all.Clone()

	if len(f.Types) > 0 {
		union := roaring.New()
		for _, t := range f.Types {
			if bm, ok := idx.byType[t]; ok {
				union.Or(bm)
			}
		}
		result.And(union)
	}

	if f.Licensed != nil {
		applyFlag(result, idx.licensed, *f.Licensed)
	}
	if f.Binned != nil {
		applyFlag(result, idx.binned, *f.Binned)
	}

	for _, tok := range Tokenize(f.Text) {
		bm, ok := idx.byToken[tok]
		if !ok {
			return []*akixi.Report{}
		}
		result.And(bm)
	}

	out := make([]*akixi.Report, 0, result.GetCardinality())
	it := result.Iterator()
	for it.HasNext() {
		out = append(out, idx.reports[it.Next()])
	}
	return out
}

// CountByType returns how many reports exist per type.
func (idx *Index) CountByType() map[akixi.ReportType]int {
	counts := make(map[akixi.ReportType]int, len(idx.byType))
	for t, bm := range idx.byType {
		counts[t] = int(bm.GetCardinality())
	}
	return counts
}

func applyFlag(result, flagged *roaring.Bitmap, want bool) {
	if want {
		result.And(flagged)
	} else {
		result.AndNot(flagged)
	}
}

// Tokenize lowercases s and splits it on anything but letters and digits.
// Report descriptions use "/" as a folder separator, so folders become
// tokens too.
func Tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
