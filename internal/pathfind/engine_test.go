package pathfind

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chosenoffset.com/astarviz/internal/grid"
	"chosenoffset.com/astarviz/internal/observe"
)

func mustParse(t *testing.T, layout string) *grid.Grid {
	t.Helper()
	g, err := grid.ParseLayout(layout)
	require.NoError(t, err)
	return g
}

func initialized(t *testing.T, g *grid.Grid, opts ...Option) *Engine {
	t.Helper()
	e := New(g, opts...)
	start, goal, err := FindEndpoints(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize(start, goal))
	return e
}

func positions(g *grid.Grid, ids []int) []grid.Position {
	out := make([]grid.Position, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.Cell(id).Pos)
	}
	return out
}

func TestHeuristic(t *testing.T) {
	goal := grid.Position{Row: 2, Col: 2}
	assert.Equal(t, 40, Heuristic(grid.Position{Row: 0, Col: 0}, goal, 10))
	assert.Equal(t, 0, Heuristic(goal, goal, 10))
	assert.Equal(t, 3, Heuristic(grid.Position{Row: 3, Col: 1}, goal, 1))
}

func TestOpenThreeByThree(t *testing.T) {
	g := mustParse(t, "S../.../..G")
	recorder := observe.NewRecorder(0)
	e := initialized(t, g, WithEmitter(recorder))

	assert.Equal(t, Initialized, e.State())
	assert.Equal(t, 0, g.Cell(0).Heuristic, "start keeps h=0")
	assert.Equal(t, 30, g.Cell(1).Heuristic)
	assert.Equal(t, []int{0}, e.Closed())
	assert.Empty(t, e.Open())

	state, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	require.Equal(t, Found, state)

	assert.Len(t, e.Path(), 5)
	assert.Equal(t, 40, e.PathCost())
	assert.Equal(t, 4, e.Steps())
	assert.Equal(t, []grid.Position{{0, 0}, {0, 1}, {0, 2}, {1, 2}}, positions(g, e.Closed()))
	assert.Equal(t, []grid.Position{{0, 0}, {0, 1}, {0, 2}, {1, 2}, {2, 2}}, positions(g, e.Path()))
	assert.Equal(t, "S**\noo*\n..G", g.String())

	// (1,1) was offered g=30 from (1,2) but already had g=20.
	center := g.Cell(4)
	assert.Equal(t, 1, center.Parent)
	assert.Equal(t, 20, center.PathCost)

	assert.Len(t, recorder.Filter(observe.EventInitialized), 1)
	assert.Len(t, recorder.Filter(observe.EventExpanded), 4)
	found := recorder.Filter(observe.EventFound)
	require.Len(t, found, 1)
	assert.Equal(t, 40, found[0].Int(observe.MetaPathCost, 0))
	assert.Equal(t, 5, found[0].Int(observe.MetaPathLength, 0))
	assert.Equal(t, 4, found[0].Step)
}

func TestWalledOffGoalExhausts(t *testing.T) {
	g := mustParse(t, "S../###/..G")
	e := initialized(t, g)

	state, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Exhausted, state)
	assert.Equal(t, 3, e.Steps())
	assert.Equal(t, []int{0, 1, 2}, e.Closed())
	assert.Empty(t, e.Open())
	assert.Nil(t, e.Path())
	assert.Equal(t, "Soo\n###\n..G", g.String())
}

func TestAdjacentGoalFoundOnFirstStep(t *testing.T) {
	g := mustParse(t, "SG")
	e := initialized(t, g)

	state, err := e.Step()
	require.NoError(t, err)
	assert.Equal(t, Found, state)
	assert.Equal(t, 1, e.Steps())
	assert.Equal(t, []int{0, 1}, e.Path())
	assert.Equal(t, 10, e.PathCost())
	assert.Equal(t, "SG", g.String(), "start and goal are never overwritten")
}

func TestStepRejectsInvalidStates(t *testing.T) {
	g := mustParse(t, "SG")
	e := New(g)

	_, err := e.Step()
	var stateErr *InvalidStateError
	require.ErrorAs(t, err, &stateErr)
	assert.Equal(t, Idle, stateErr.State)
	assert.True(t, errors.Is(err, ErrInvalidState))

	_, err = e.RunToCompletion(context.Background())
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, e.Initialize(0, 1))
	assert.ErrorIs(t, e.Initialize(0, 1), ErrInvalidState)

	_, err = e.Step()
	require.NoError(t, err)
	require.Equal(t, Found, e.State())

	state, err := e.Step()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, Found, state)
}

func TestInitializeConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		start  int
		goal   int
		starts int
		goals  int
	}{
		{"no goal", "S..", 0, 2, 1, 0},
		{"no start", "..G", 0, 2, 0, 1},
		{"two starts", "S.S/..G", 0, 5, 2, 1},
		{"two goals", "S.G/..G", 0, 2, 1, 2},
		{"wrong cells", "S.G", 1, 2, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(mustParse(t, tt.layout))
			err := e.Initialize(tt.start, tt.goal)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.ErrorIs(t, err, ErrConfiguration)
			assert.Equal(t, tt.starts, cfgErr.Starts)
			assert.Equal(t, tt.goals, cfgErr.Goals)
			assert.Equal(t, Idle, e.State())
		})
	}
}

func TestRelaxationUsesStrictLess(t *testing.T) {
	// S . .
	// . . G
	t.Run("shorter path updates parent in place", func(t *testing.T) {
		g := mustParse(t, "S../..G")
		e := initialized(t, g)
		e.openCell(1)
		c := g.Cell(1)
		c.Parent, c.PathCost, c.TotalCost = 3, 50, c.Heuristic+50

		_, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, 0, c.Parent)
		assert.Equal(t, 10, c.PathCost)
		assert.Equal(t, c.Heuristic+10, c.TotalCost)
		assert.Equal(t, Open, e.Membership(1))
		assert.Equal(t, []int{1, 3}, e.Open(), "no duplicate insertion")
	})

	t.Run("equal cost keeps parent", func(t *testing.T) {
		g := mustParse(t, "S../..G")
		e := initialized(t, g)
		e.openCell(1)
		c := g.Cell(1)
		c.Parent, c.PathCost, c.TotalCost = 3, 10, c.Heuristic+10

		_, err := e.Step()
		require.NoError(t, err)
		assert.Equal(t, 3, c.Parent)
	})
}

func TestSelectionPolicies(t *testing.T) {
	setup := func(t *testing.T, sel Selection) *Engine {
		g := mustParse(t, "S..../...../....G")
		e := initialized(t, g, WithSelection(sel))

		// First inserted has the higher f but the smaller h.
		a, b := g.Cell(2), g.Cell(5)
		e.openCell(a.ID)
		e.openCell(b.ID)
		a.Heuristic, a.PathCost, a.TotalCost = 10, 50, 60
		b.Heuristic, b.PathCost, b.TotalCost = 30, 10, 40
		return e
	}

	observed := setup(t, SelectObserved)
	assert.Equal(t, 2, observed.selectNext(), "observed keeps the first <= running minimum and prefers smaller h")

	strict := setup(t, SelectStrict)
	assert.Equal(t, 5, strict.selectNext(), "strict takes the minimum total cost")
}

func TestSelectionTieKeepsFirstCandidate(t *testing.T) {
	g := mustParse(t, "S..../...../....G")
	e := initialized(t, g)
	for _, id := range []int{1, 5, 6} {
		e.openCell(id)
		c := g.Cell(id)
		c.PathCost, c.TotalCost = 10, c.Heuristic+10
	}
	g.Cell(1).TotalCost, g.Cell(1).Heuristic = 40, 20
	g.Cell(5).TotalCost, g.Cell(5).Heuristic = 40, 20
	g.Cell(6).TotalCost, g.Cell(6).Heuristic = 40, 20

	assert.Equal(t, 1, e.selectNext())
}

func TestRestartIsDeterministic(t *testing.T) {
	g := mustParse(t, "S.#.../..#.#./....#./.##..G")
	e := initialized(t, g)

	_, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	firstOrder := e.Closed()
	firstGrid := g.String()
	firstPath := e.Path()

	e.Restart(false)
	assert.Equal(t, Idle, e.State())
	for _, c := range g.Cells() {
		assert.NotEqual(t, grid.Visited, c.Class)
		assert.NotEqual(t, grid.OnPath, c.Class)
		assert.Zero(t, c.PathCost)
		assert.Zero(t, c.TotalCost)
		assert.Zero(t, c.Heuristic)
		assert.Equal(t, grid.NoCell, c.Parent)
	}
	assert.Equal(t, 6, g.Count(grid.Wall))
	assert.Equal(t, 1, g.Count(grid.Start))
	assert.Equal(t, 1, g.Count(grid.Goal))

	start, goal, err := FindEndpoints(g)
	require.NoError(t, err)
	require.NoError(t, e.Initialize(start, goal))
	_, err = e.RunToCompletion(context.Background())
	require.NoError(t, err)

	assert.Equal(t, firstOrder, e.Closed())
	assert.Equal(t, firstGrid, g.String())
	assert.Equal(t, firstPath, e.Path())
	assert.Equal(t, 2, e.Run())
}

func TestFullRestartRestoresOriginalStart(t *testing.T) {
	g := mustParse(t, "S.#/.../..G")
	e := New(g)
	e.DesignateStart(0)

	// Move the start without designating it.
	g.Cell(0).Class = grid.Neutral
	g.Cell(3).Class = grid.Start
	require.NoError(t, e.Initialize(3, 8))
	_, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)

	e.Restart(true)
	assert.Equal(t, grid.Start, g.Cell(0).Class)
	assert.Equal(t, grid.Neutral, g.Cell(3).Class)
	assert.Equal(t, grid.Wall, g.Cell(2).Class, "walls persist")
	assert.Equal(t, grid.Goal, g.Cell(8).Class)
	assert.Equal(t, 1, g.Count(grid.Start))
}

func TestInitializeRecordsOriginalStart(t *testing.T) {
	g := mustParse(t, "S.G")
	e := New(g)
	assert.Equal(t, grid.NoCell, e.OriginalStart())
	require.NoError(t, e.Initialize(0, 2))
	assert.Equal(t, 0, e.OriginalStart())

	e.DesignateStart(99)
	assert.Equal(t, 0, e.OriginalStart(), "out of range ids are ignored")
}

func TestRunToCompletionHonoursContext(t *testing.T) {
	g := mustParse(t, "S..../...../....G")
	e := initialized(t, g)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	state, err := e.RunToCompletion(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Initialized, state)
	assert.True(t, e.Searching())

	state, err = e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Found, state)
	assert.False(t, e.Searching())
}

func TestWithMinimumCost(t *testing.T) {
	g := mustParse(t, "S../..G")
	e := initialized(t, g, WithMinimumCost(1))
	assert.Equal(t, 1, e.MinimumCost())

	_, err := e.RunToCompletion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, e.PathCost())

	assert.Equal(t, DefaultMinimumCost, New(g, WithMinimumCost(0)).MinimumCost())
}

// randomGrid builds a rows x cols grid with walls at the given density and
// a start and goal on distinct cells.
func randomGrid(t *testing.T, rng *rand.Rand, density float64) (*grid.Grid, int, int) {
	t.Helper()
	rows, cols := 2+rng.Intn(7), 2+rng.Intn(7)
	g, err := grid.New(rows, cols)
	require.NoError(t, err)

	for i := range g.Cells() {
		if rng.Float64() < density {
			g.Cell(i).Class = grid.Wall
		}
	}
	start := rng.Intn(g.Len())
	goal := rng.Intn(g.Len() - 1)
	if goal >= start {
		goal++
	}
	g.Cell(start).Class = grid.Start
	g.Cell(goal).Class = grid.Goal
	return g, start, goal
}

// reachable returns the distance in moves from start to every non-wall
// cell it can reach, the goal excluded from expansion.
func reachable(g *grid.Grid, start int) map[int]int {
	dist := map[int]int{start: 0}
	queue := []int{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if g.Cell(id).Class == grid.Goal {
			continue
		}
		for _, n := range g.Neighbors(id) {
			if g.Cell(n).Class == grid.Wall {
				continue
			}
			if _, seen := dist[n]; !seen {
				dist[n] = dist[id] + 1
				queue = append(queue, n)
			}
		}
	}
	return dist
}

func adjacent(a, b grid.Position) bool {
	return abs(a.Row-b.Row)+abs(a.Col-b.Col) == 1
}

func TestRandomGridProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, sel := range []Selection{SelectObserved, SelectStrict} {
		for i := 0; i < 200; i++ {
			g, start, goal := randomGrid(t, rng, 0.3)
			dist := reachable(g, start)
			e := New(g, WithSelection(sel))
			require.NoError(t, e.Initialize(start, goal))

			for !e.State().Terminal() {
				_, err := e.Step()
				require.NoError(t, err)
				for _, c := range g.Cells() {
					if c.Parent != grid.NoCell {
						require.Equal(t, c.PathCost+c.Heuristic, c.TotalCost, "f = g + h at %v", c.Pos)
					}
					if c.Class == grid.Wall {
						require.Equal(t, NotQueued, e.Membership(c.ID))
					}
				}
			}

			goalDist, connected := dist[goal]
			if !connected {
				require.Equal(t, Exhausted, e.State(), "grid:\n%s", g)

				component := make([]int, 0, len(dist))
				for id := range dist {
					component = append(component, id)
				}
				assert.ElementsMatch(t, component, e.Closed(), "grid:\n%s", g)
				continue
			}

			require.Equal(t, Found, e.State(), "grid:\n%s", g)
			path := e.Path()
			require.GreaterOrEqual(t, len(path), 2)
			assert.Equal(t, start, path[0])
			assert.Equal(t, goal, path[len(path)-1])

			seen := map[int]bool{}
			for j, id := range path {
				assert.False(t, seen[id], "path repeats cell %d", id)
				seen[id] = true
				assert.NotEqual(t, grid.Wall, g.Cell(id).Class)
				if j > 0 {
					assert.True(t, adjacent(g.Cell(path[j-1]).Pos, g.Cell(id).Pos))
				}
			}
			assert.Equal(t, len(path)-2, g.Count(grid.OnPath))
			assert.Equal(t, (len(path)-1)*e.MinimumCost(), e.PathCost())

			if sel == SelectStrict {
				assert.Equal(t, goalDist*e.MinimumCost(), e.PathCost(), "strict selection is optimal, grid:\n%s", g)
			}
		}
	}
}
