package function

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/brimdata/funcsig"
	"github.com/brimdata/funcsig/analysis"
	"github.com/brimdata/funcsig/sig"
	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of argument list analyses a Registry
// remembers.
const DefaultCacheSize = 1024

// Entry is a registered overload.  Summary is shared between entries with
// identical argument lists and must not be modified.
type Entry struct {
	Signature *Signature
	Summary   *analysis.Summary
	MinArgs   int
	MaxArgs   int
}

func (e *Entry) Priority() analysis.Priority {
	return e.Summary.Priority()
}

func (e *Entry) String() string {
	return fmt.Sprintf("%s [%s]", e.Signature, e.Priority())
}

// Registry holds the overloads of each function name ordered by priority.
// A Registry is safe for concurrent use.
type Registry struct {
	logger  *zap.Logger
	metrics *metrics
	cache   *arc.ARCCache[string, *analysis.Summary]

	mu      sync.RWMutex
	entries map[string][]*Entry
}

// NewRegistry returns an empty registry.  A nil logger disables logging
// and a nil reg leaves the registry's metrics unregistered.
func NewRegistry(logger *zap.Logger, reg prometheus.Registerer) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := arc.NewARC[string, *analysis.Summary](DefaultCacheSize)
	if err != nil {
		return nil, err
	}
	return &Registry{
		logger:  logger.Named("registry"),
		metrics: newMetrics(reg),
		cache:   cache,
		entries: make(map[string][]*Entry),
	}, nil
}

// Register analyzes s and adds it to the overloads of s.Name.
func (r *Registry) Register(s *Signature) (*Entry, error) {
	entry, err := r.register(s)
	if err != nil {
		r.metrics.registrations.WithLabelValues("rejected").Inc()
		r.logger.Warn("Signature rejected",
			zap.String("function", s.Name),
			zap.Stringer("signature", s),
			zap.Error(err),
		)
		return nil, fmt.Errorf("function %q: %w", s.Name, err)
	}
	r.metrics.registrations.WithLabelValues("accepted").Inc()
	r.logger.Debug("Signature registered",
		zap.String("function", s.Name),
		zap.Stringer("signature", s),
		zap.Stringer("priority", entry.Priority()),
	)
	return entry, nil
}

func (r *Registry) register(s *Signature) (*Entry, error) {
	summary, err := r.Analyze(s.Args)
	if err != nil {
		return nil, err
	}
	if err := s.validate(summary); err != nil {
		return nil, err
	}
	entry := &Entry{
		Signature: s,
		Summary:   summary,
		MinArgs:   len(s.Args),
		MaxArgs:   len(s.Args),
	}
	if summary.HasVariadic {
		entry.MinArgs--
		entry.MaxArgs = -1
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := r.entries[s.Name]
	key := sig.FormatArgs(s.Args)
	for _, e := range entries {
		if sig.FormatArgs(e.Signature.Args) == key {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSignature, e.Signature)
		}
	}
	if len(entries) == 0 {
		r.metrics.functions.Inc()
	}
	entries = append(entries, entry)
	slices.SortStableFunc(entries, compareEntries)
	r.entries[s.Name] = entries
	return entry, nil
}

// Analyze returns the summary of args, consulting the cache first.  The
// summary is remembered for later registrations with the same arguments.
func (r *Registry) Analyze(args []funcsig.Type) (*analysis.Summary, error) {
	key := sig.FormatArgs(args)
	if summary, ok := r.cache.Get(key); ok {
		r.metrics.cacheHits.Inc()
		return summary, nil
	}
	summary, err := analysis.Summarize(args)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadSignature, err)
	}
	r.cache.Add(key, summary)
	return summary, nil
}

func compareEntries(a, b *Entry) int {
	if a.Summary.Less(b.Summary) {
		return -1
	}
	if b.Summary.Less(a.Summary) {
		return 1
	}
	return strings.Compare(sig.FormatArgs(a.Signature.Args), sig.FormatArgs(b.Signature.Args))
}

// Lookup returns the overloads of name that accept narg arguments in
// priority order.
func (r *Registry) Lookup(name string, narg int) ([]*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entries, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchFunction, name)
	}
	var out []*Entry
	var errs []error
	for _, e := range entries {
		if err := CheckArgCount(narg, e.MinArgs, e.MaxArgs); err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		// Too few only when every overload needs more arguments.
		err := ErrTooFewArgs
		if slices.ContainsFunc(errs, func(err error) bool { return errors.Is(err, ErrTooManyArgs) }) {
			err = ErrTooManyArgs
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// Entries returns every overload of name in priority order.
func (r *Registry) Entries(name string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.entries[name])
}

// Names returns the registered function names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
