package filter

import (
	"maps"
	"strings"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/samber/lo"

	"github.com/s0up4200/marquee/tmdb"
)

const releaseDateLayout = "2006-01-02"

// exprFilter implements CompiledFilter using the expr language
type exprFilter struct {
	expression string
	program    *vm.Program
	helpers    map[string]any
}

// ExprCompilerOption configures an expr compiler
type ExprCompilerOption func(*exprCompiler)

// WithCache enables filter caching with the specified size
func WithCache(size int) ExprCompilerOption {
	return func(c *exprCompiler) {
		if size > 0 {
			c.cache = newLRUCache(size)
		}
	}
}

// WithCustomFunctions adds custom helper functions
func WithCustomFunctions(funcs map[string]any) ExprCompilerOption {
	return func(c *exprCompiler) {
		maps.Copy(c.helperFuncs, funcs)
	}
}

// NewExprCompiler creates a new expr-based filter compiler
func NewExprCompiler(opts ...ExprCompilerOption) CachingCompiler {
	c := &exprCompiler{
		helperFuncs: createHelperFunctions(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// exprCompiler implements Compiler for expr-based filters
type exprCompiler struct {
	helperFuncs map[string]any
	cache       *lruCache
}

// Compile compiles an expression into an executable filter
func (c *exprCompiler) Compile(expression string) (CompiledFilter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "empty expression",
		}
	}

	if c.cache != nil {
		if cached, ok := c.cache.Get(expression); ok {
			return cached, nil
		}
	}

	program, err := expr.Compile(expression,
		expr.Env(compileEnvironment(c.helperFuncs)),
		expr.AsBool(),
	)
	if err != nil {
		return nil, &CompilationError{
			Expression: expression,
			Reason:     "failed to compile expression",
			Err:        err,
		}
	}

	filter := &exprFilter{
		expression: expression,
		program:    program,
		helpers:    c.helperFuncs,
	}

	if c.cache != nil {
		c.cache.Put(expression, filter)
	}

	return filter, nil
}

// Clear removes all cached filters
func (c *exprCompiler) Clear() {
	if c.cache != nil {
		c.cache.Clear()
	}
}

// Size returns the number of cached filters
func (c *exprCompiler) Size() int {
	if c.cache != nil {
		return c.cache.Size()
	}
	return 0
}

// Evaluate reports whether movie matches. Movies that fail evaluation do not match.
func (f *exprFilter) Evaluate(movie tmdb.MovieRecord) bool {
	ok, err := f.Match(movie)
	return err == nil && ok
}

// Match evaluates the filter against a movie
func (f *exprFilter) Match(movie tmdb.MovieRecord) (bool, error) {
	env := createRuntimeEnvironment(movie)
	maps.Copy(env, f.helpers)

	result, err := expr.Run(f.program, env)
	if err != nil {
		return false, &EvaluationError{
			Expression: f.expression,
			MovieID:    movie.ID,
			MovieTitle: movie.Title,
			Err:        err,
		}
	}

	// AsBool at compile time guarantees the type
	return result.(bool), nil
}

// Expression returns the original expression
func (f *exprFilter) Expression() string {
	return f.expression
}

// createHelperFunctions creates the static helper functions used during compilation
func createHelperFunctions() map[string]any {
	funcs := make(map[string]any, 16)
	addHelperFunctions(funcs)
	return funcs
}

// addHelperFunctions adds all helper functions to the provided map
func addHelperFunctions(env map[string]any) {
	// Date helpers
	env["daysSince"] = func(t time.Time) int {
		return int(time.Since(t).Hours() / 24)
	}
	env["daysAgo"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, -days)
	}
	env["daysAhead"] = func(days int) time.Time {
		return time.Now().AddDate(0, 0, days)
	}
	env["monthsAgo"] = func(months int) time.Time {
		return time.Now().AddDate(0, -months, 0)
	}
	env["yearsAgo"] = func(years int) time.Time {
		return time.Now().AddDate(-years, 0, 0)
	}
	env["parseDate"] = func(dateStr string) time.Time {
		t, _ := time.Parse(releaseDateLayout, dateStr)
		return t
	}
	// String helpers. contains, startsWith and endsWith are expr operators and match case-sensitively.
	env["containsFold"] = func(str, substr string) bool {
		return strings.Contains(strings.ToLower(str), strings.ToLower(substr))
	}
	env["hasPrefix"] = func(str, prefix string) bool {
		return strings.HasPrefix(strings.ToLower(str), strings.ToLower(prefix))
	}
	env["hasSuffix"] = func(str, suffix string) bool {
		return strings.HasSuffix(strings.ToLower(str), strings.ToLower(suffix))
	}
	env["lower"] = strings.ToLower
	env["upper"] = strings.ToUpper
	// Current time
	env["now"] = time.Now
}

// compileEnvironment is the environment used for type checking: helpers plus zero valued
// movie properties.
func compileEnvironment(helpers map[string]any) map[string]any {
	env := createRuntimeEnvironment(tmdb.MovieRecord{})
	maps.Copy(env, helpers)
	return env
}

// createRuntimeEnvironment creates the runtime environment for filter evaluation
func createRuntimeEnvironment(movie tmdb.MovieRecord) map[string]any {
	env := make(map[string]any, 32)

	addHelperFunctions(env)

	env["hasGenre"] = createHasGenreFunc(movie.GenreNames)
	env["released"] = createReleasedFunc(movie.ReleaseDate)

	// Movie properties
	env["ID"] = movie.ID
	env["Title"] = movie.Title
	env["Overview"] = movie.Synopsis
	env["Year"] = movie.Year()
	env["ReleaseDate"] = parseReleaseDate(movie.ReleaseDate)
	env["Genres"] = movie.GenreNames
	env["HasBackdrop"] = movie.HasBackdrop()
	env["HasPoster"] = movie.HasPoster()

	return env
}

func parseReleaseDate(date string) time.Time {
	t, err := time.Parse(releaseDateLayout, date)
	if err != nil {
		return time.Time{}
	}
	return t
}

func createHasGenreFunc(genres []string) func(string) bool {
	lowerGenres := lo.Map(genres, func(genre string, _ int) string {
		return strings.ToLower(genre)
	})
	return func(genre string) bool {
		return lo.Contains(lowerGenres, strings.ToLower(genre))
	}
}

// createReleasedFunc reports whether the movie has a known release date in the past
func createReleasedFunc(date string) func() bool {
	releaseDate := parseReleaseDate(date)
	return func() bool {
		return !releaseDate.IsZero() && !releaseDate.After(time.Now())
	}
}
