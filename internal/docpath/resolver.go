package docpath

import (
	"context"
	"log"
	"path"
	"sort"
	"strings"

	"brokerdesk/internal/domain"
)

// Store is the read side of object storage the resolver probes.
type Store interface {
	Exists(ctx context.Context, key string) (bool, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// Cache remembers where a reference was last found.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Method names the strategy that located a document.
type Method string

const (
	MethodDirect   Method = "direct"
	MethodAPI      Method = "api"
	MethodTemp     Method = "temp"
	MethodFilename Method = "filename"
	MethodExternal Method = "external"
	MethodCached   Method = "cached"
	MethodNone     Method = "all-failed"
)

// Attempt records one storage probe made while resolving.
type Attempt struct {
	Method Method `json:"method"`
	Key    string `json:"key"`
	Found  bool   `json:"found"`
	Error  string `json:"error,omitempty"`
}

// Resolution is the outcome of resolving a reference.
type Resolution struct {
	Ref        string    `json:"ref"`
	Normalized string    `json:"normalized"`
	Location   *Location `json:"location,omitempty"`
	Method     Method    `json:"method"`
	Key        string    `json:"key,omitempty"`
	URL        string    `json:"url,omitempty"`
	Attempts   []Attempt `json:"attempts"`
}

// Found reports whether a strategy located the document.
func (r *Resolution) Found() bool {
	return r.Method != "" && r.Method != MethodNone
}

// Filename is the name the document should be served under.
func (r *Resolution) Filename() string {
	if r.Key != "" {
		return path.Base(r.Key)
	}
	if r.Location != nil {
		return r.Location.Filename
	}
	return FileName(r.Ref)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache enables the resolution cache.
func WithCache(c Cache) Option {
	return func(r *Resolver) { r.cache = c }
}

// WithObserver registers a callback invoked with the final method of every resolution.
func WithObserver(fn func(Method)) Option {
	return func(r *Resolver) { r.observe = fn }
}

// Resolver locates stored documents by trying, in order, the reference's own
// path, the client's canonical directory, temp upload directories and finally
// any document with the same filename.
type Resolver struct {
	store   Store
	cache   Cache
	observe func(Method)
}

// NewResolver creates a Resolver over store.
func NewResolver(store Store, opts ...Option) *Resolver {
	r := &Resolver{store: store, observe: func(Method) {}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve locates ref for the client with the given ID. clientID may be empty
// when the caller has no record context. On failure the returned Resolution
// still lists every attempt and the error is domain.ErrDocumentUnavailable.
func (r *Resolver) Resolve(ctx context.Context, ref, clientID string) (*Resolution, error) {
	res := &Resolution{Ref: ref, Normalized: Normalize(ref), Attempts: []Attempt{}}
	if res.Normalized == "" {
		return res, ErrEmptyRef
	}
	if IsExternal(ref) {
		res.Method = MethodExternal
		res.URL = res.Normalized
		r.observe(MethodExternal)
		return res, nil
	}
	if loc, err := Parse(ref, clientID); err == nil {
		res.Location = &loc
	}

	run := &resolveRun{r: r, res: res, clientID: clientID, tried: map[string]bool{}}

	ck := cacheKey(clientID, res.Normalized)
	if r.cache != nil {
		if run.fromCache(ctx, ck) {
			r.observe(MethodCached)
			return res, nil
		}
	}

	steps := []func(context.Context) bool{run.direct, run.api, run.temp, run.filename}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if step(ctx) {
			if r.cache != nil {
				if err := r.cache.Set(ctx, ck, string(res.Method)+"|"+res.Key); err != nil {
					log.Printf("docpath.Resolve: cache set failed for %q: %v", ref, err)
				}
			}
			r.observe(res.Method)
			return res, nil
		}
	}

	res.Method = MethodNone
	r.observe(MethodNone)
	return res, domain.ErrDocumentUnavailable
}

// ResolveDirect checks only the reference's own storage key, without the
// cache or any fallback. It serves callers that hold no record context.
func (r *Resolver) ResolveDirect(ctx context.Context, ref string) (*Resolution, error) {
	res := &Resolution{Ref: ref, Normalized: Normalize(ref), Attempts: []Attempt{}}
	if res.Normalized == "" {
		return res, ErrEmptyRef
	}
	if loc, err := Parse(ref, ""); err == nil {
		res.Location = &loc
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	run := &resolveRun{r: r, res: res, tried: map[string]bool{}}
	if run.direct(ctx) {
		r.observe(MethodDirect)
		return res, nil
	}
	res.Method = MethodNone
	r.observe(MethodNone)
	return res, domain.ErrDocumentUnavailable
}

// Forget drops any cached resolution for ref.
func (r *Resolver) Forget(ctx context.Context, ref, clientID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, cacheKey(clientID, Normalize(ref))); err != nil {
		log.Printf("docpath.Forget: cache delete failed for %q: %v", ref, err)
	}
}

func cacheKey(clientID, normalized string) string {
	return "docpath:" + clientID + ":" + normalized
}

type resolveRun struct {
	r        *Resolver
	res      *Resolution
	clientID string
	tried    map[string]bool

	listed  bool
	keys    []string
	listErr error
}

func (run *resolveRun) probe(ctx context.Context, m Method, key string) bool {
	if run.tried[key] {
		return false
	}
	run.tried[key] = true
	ok, err := run.r.store.Exists(ctx, key)
	a := Attempt{Method: m, Key: key, Found: ok}
	if err != nil {
		a.Error = err.Error()
	}
	run.res.Attempts = append(run.res.Attempts, a)
	if ok {
		run.res.Method = m
		run.res.Key = key
	}
	return ok
}

func (run *resolveRun) fromCache(ctx context.Context, ck string) bool {
	v, ok, err := run.r.cache.Get(ctx, ck)
	if err != nil {
		log.Printf("docpath.Resolve: cache get failed: %v", err)
		return false
	}
	if !ok {
		return false
	}
	method, key, found := strings.Cut(v, "|")
	if !found || key == "" {
		return false
	}
	if run.probe(ctx, MethodCached, key) {
		run.res.Method = Method(method)
		return true
	}
	// Stale entry: the object moved or was deleted since it was cached.
	_ = run.r.cache.Delete(ctx, ck)
	delete(run.tried, key)
	return false
}

func (run *resolveRun) direct(ctx context.Context) bool {
	key, err := Key(run.res.Normalized)
	if err != nil {
		run.res.Attempts = append(run.res.Attempts, Attempt{Method: MethodDirect, Error: err.Error()})
		return false
	}
	return run.probe(ctx, MethodDirect, key)
}

func (run *resolveRun) api(ctx context.Context) bool {
	loc := run.res.Location
	if loc != nil && run.probe(ctx, MethodAPI, CanonicalKey(loc.ClientID, loc.Filename)) {
		return true
	}
	if run.clientID == "" {
		return false
	}
	return run.probe(ctx, MethodAPI, CanonicalKey(run.clientID, run.targetName()))
}

func (run *resolveRun) temp(ctx context.Context) bool {
	name := run.targetName()
	for _, key := range run.documentKeys(ctx, MethodTemp) {
		dir, file := path.Split(strings.TrimPrefix(key, DocumentsDir+"/"))
		if file != name || !IsTempDir(strings.TrimSuffix(dir, "/")) || strings.Count(dir, "/") != 1 {
			continue
		}
		if run.probe(ctx, MethodTemp, key) {
			return true
		}
	}
	return false
}

func (run *resolveRun) filename(ctx context.Context) bool {
	name := run.targetName()
	for _, key := range run.documentKeys(ctx, MethodFilename) {
		if path.Base(key) != name {
			continue
		}
		if run.probe(ctx, MethodFilename, key) {
			return true
		}
	}
	return false
}

func (run *resolveRun) targetName() string {
	if run.res.Location != nil {
		return run.res.Location.Filename
	}
	return FileName(run.res.Normalized)
}

// documentKeys lists every stored document once per resolution, sorted so that
// the fallback strategies pick deterministically.
func (run *resolveRun) documentKeys(ctx context.Context, m Method) []string {
	if !run.listed {
		run.listed = true
		run.keys, run.listErr = run.r.store.List(ctx, DocumentsDir+"/")
		sort.Strings(run.keys)
	}
	if run.listErr != nil {
		run.res.Attempts = append(run.res.Attempts, Attempt{Method: m, Key: DocumentsDir + "/", Error: run.listErr.Error()})
		return nil
	}
	return run.keys
}
