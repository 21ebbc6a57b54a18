package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/nao1215/tsukuyomi/internal/database"
	"github.com/nao1215/tsukuyomi/internal/fractal"
	"github.com/nao1215/tsukuyomi/internal/model"
	"github.com/nao1215/tsukuyomi/internal/render"
	"github.com/nao1215/tsukuyomi/internal/tracker"
)

// ResolveStep recovers the page token and raw depth from the request path.
//
// Resolution never fails: a path that is not a well-formed page URL becomes
// a fresh root derived from the literal path string. A crawler probing
// /admin or /../../etc/passwd receives a normal page and learns nothing
// about the trap's boundaries.
type ResolveStep struct {
	// deriver produces root tokens for unresolvable paths.
	deriver *fractal.Deriver
}

// NewResolveStep creates a ResolveStep.
func NewResolveStep(deriver *fractal.Deriver) *ResolveStep {
	return &ResolveStep{deriver: deriver}
}

// Name returns the step name.
func (s *ResolveStep) Name() string { return "resolve" }

// Do resolves the raw path into a token and depth.
func (s *ResolveStep) Do(_ context.Context, req *model.PageRequest) error {
	if req.RawPath == "/" || req.RawPath == "" {
		req.Token = s.deriver.Root("/")
		req.Depth = 0
		return nil
	}

	if token, depth, ok := parsePagePath(req.RawPath); ok {
		req.Token = token
		req.Depth = depth
		return nil
	}

	req.Token = s.deriver.Root(req.RawPath)
	req.Depth = 0
	req.Fresh = true
	return nil
}

// parsePagePath matches /page/<depth>/<token> exactly.
func parsePagePath(path string) (model.Token, int, bool) {
	parts := strings.Split(path, "/")
	if len(parts) != 4 || parts[0] != "" || parts[1] != "page" {
		return "", 0, false
	}

	depth, err := strconv.Atoi(parts[2])
	if err != nil || depth < 0 {
		return "", 0, false
	}

	token := model.Token(parts[3])
	if !token.IsValid() {
		return "", 0, false
	}

	return token, depth, true
}

// FoldStep maps the raw depth onto its bounded effective depth.
type FoldStep struct {
	// threshold is the depth beyond which folding starts.
	threshold int

	// cycleLength is the size of the folded cycle.
	cycleLength int
}

// NewFoldStep creates a FoldStep.
func NewFoldStep(threshold, cycleLength int) *FoldStep {
	return &FoldStep{threshold: threshold, cycleLength: cycleLength}
}

// Name returns the step name.
func (s *FoldStep) Name() string { return "fold" }

// Do computes the effective depth.
func (s *FoldStep) Do(_ context.Context, req *model.PageRequest) error {
	req.EffectiveDepth = fractal.Fold(req.Depth, s.threshold, s.cycleLength)
	return nil
}

// TrackStep records the request in the in-memory tracking store.
// It is a no-op when tracking is disabled or the client was not keyed.
type TrackStep struct {
	// store is the tracking store; nil disables the step.
	store *tracker.Store
}

// NewTrackStep creates a TrackStep. A nil store is allowed.
func NewTrackStep(store *tracker.Store) *TrackStep {
	return &TrackStep{store: store}
}

// Name returns the step name.
func (s *TrackStep) Name() string { return "track" }

// Do records the visit.
func (s *TrackStep) Do(_ context.Context, req *model.PageRequest) error {
	if s.store == nil || req.ClientKey == "" {
		return nil
	}
	s.store.Record(req.ClientKey, req.UserAgent, req.Token, req.Depth)
	return nil
}

// ExpandStep generates the page's child tokens.
type ExpandStep struct {
	// expander produces the fixed-size child set.
	expander *fractal.Expander
}

// NewExpandStep creates an ExpandStep.
func NewExpandStep(expander *fractal.Expander) *ExpandStep {
	return &ExpandStep{expander: expander}
}

// Name returns the step name.
func (s *ExpandStep) Name() string { return "expand" }

// Do expands the page into its children using the effective depth.
func (s *ExpandStep) Do(_ context.Context, req *model.PageRequest) error {
	req.Children = s.expander.Expand(req.Token, req.EffectiveDepth)
	return nil
}

// LocateStep computes the page's bounded display coordinate.
type LocateStep struct {
	// synthesizer maps token and effective depth to a coordinate.
	synthesizer *fractal.Synthesizer
}

// NewLocateStep creates a LocateStep.
func NewLocateStep(synthesizer *fractal.Synthesizer) *LocateStep {
	return &LocateStep{synthesizer: synthesizer}
}

// Name returns the step name.
func (s *LocateStep) Name() string { return "locate" }

// Do computes the coordinate.
func (s *LocateStep) Do(_ context.Context, req *model.PageRequest) error {
	req.Coordinate = s.synthesizer.Locate(req.Token, req.EffectiveDepth)
	return nil
}

// RenderStep produces the response body.
// Child links carry the raw depth plus one, so URLs keep growing even after
// generation has folded into the cycle.
type RenderStep struct {
	// renderer formats the page.
	renderer *render.Renderer
}

// NewRenderStep creates a RenderStep.
func NewRenderStep(renderer *render.Renderer) *RenderStep {
	return &RenderStep{renderer: renderer}
}

// Name returns the step name.
func (s *RenderStep) Name() string { return "render" }

// Do renders the page body.
func (s *RenderStep) Do(_ context.Context, req *model.PageRequest) error {
	body, err := s.renderer.Page(render.PageView{
		Token:      req.Token,
		Coordinate: req.Coordinate,
		Children:   req.Children,
		ChildDepth: req.Depth + 1,
	})
	if err != nil {
		return err
	}
	req.Body = body
	return nil
}

// DelayStep applies the artificial delay.
// It runs after rendering so the sleep is the only thing between the
// pipeline and the response write.
type DelayStep struct {
	// policy selects the delay for the page.
	policy *fractal.DelayPolicy
}

// NewDelayStep creates a DelayStep.
func NewDelayStep(policy *fractal.DelayPolicy) *DelayStep {
	return &DelayStep{policy: policy}
}

// Name returns the step name.
func (s *DelayStep) Name() string { return "delay" }

// Do sleeps for the page's deterministic delay, honoring cancellation.
func (s *DelayStep) Do(ctx context.Context, req *model.PageRequest) error {
	req.Delay = s.policy.DelayFor(req.Token, req.EffectiveDepth)
	return fractal.Sleep(ctx, req.Delay)
}

// HitLogStep appends the completed request to the persistent hit log.
// It is a no-op when persistence is disabled. Logging is asynchronous and
// runs after the delay step so the recorded latency is final.
type HitLogStep struct {
	// db is the hit database; nil disables the step.
	db *database.HitDB
}

// NewHitLogStep creates a HitLogStep. A nil database is allowed.
func NewHitLogStep(db *database.HitDB) *HitLogStep {
	return &HitLogStep{db: db}
}

// Name returns the step name.
func (s *HitLogStep) Name() string { return "hitlog" }

// Do queues the hit.
func (s *HitLogStep) Do(_ context.Context, req *model.PageRequest) error {
	if s.db == nil {
		return nil
	}
	s.db.Log(model.HitFromRequest(req))
	return nil
}
