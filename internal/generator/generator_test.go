package generator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sharkin/internal/llm"
	"sharkin/internal/llm/llmtest"
	"sharkin/internal/logger"
	"sharkin/internal/models"
	"sharkin/internal/store"
	"sharkin/internal/tasks"
)

const testUserID = "0b7f2a4e-3c1d-4f5a-9e8b-1a2b3c4d5e6f"

type fakeStore struct {
	mu    sync.Mutex
	users map[string]*models.User

	hooks      []*models.GeneratedHooks
	scoreRows  []models.HookScoreRecord
	posts      []*models.GeneratedPosts
	comments   []*models.GeneratedComments
	calls      []*models.AICallLog
	increments int

	failSaves bool
	findErr   error
}

func newFakeStore(users ...*models.User) *fakeStore {
	fs := &fakeStore{users: map[string]*models.User{}}
	for _, u := range users {
		fs.users[u.ID] = u
	}
	return fs
}

var errDBDown = errors.New("db down")

func (f *fakeStore) FindUser(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) IncrementUsage(ctx context.Context, userID string, amount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.increments += amount
	return nil
}

func (f *fakeStore) SaveHooks(ctx context.Context, row *models.GeneratedHooks) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaves {
		return errDBDown
	}
	f.hooks = append(f.hooks, row)
	return nil
}

func (f *fakeStore) SaveHookScores(ctx context.Context, rows []models.HookScoreRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaves {
		return errDBDown
	}
	f.scoreRows = append(f.scoreRows, rows...)
	return nil
}

func (f *fakeStore) SavePosts(ctx context.Context, row *models.GeneratedPosts) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaves {
		return errDBDown
	}
	f.posts = append(f.posts, row)
	return nil
}

func (f *fakeStore) SaveComments(ctx context.Context, row *models.GeneratedComments) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSaves {
		return errDBDown
	}
	f.comments = append(f.comments, row)
	return nil
}

func (f *fakeStore) LogAICall(ctx context.Context, row *models.AICallLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, row)
	return nil
}

type harness struct {
	svc    *Service
	store  *fakeStore
	llm    *llmtest.Completer
	runner *tasks.Runner
}

func newHarness(t *testing.T, replies ...llmtest.Reply) *harness {
	t.Helper()
	fs := newFakeStore(&models.User{ID: testUserID, MonthlyCreditsUsed: 3, MonthlyCreditsLimit: 50})
	fake := llmtest.New(replies...)
	runner := tasks.NewRunner(4, time.Second, logger.Nop())
	t.Cleanup(func() { _ = runner.Close(context.Background()) })
	return &harness{
		svc:    New(fs, fake, runner, logger.Nop()),
		store:  fs,
		llm:    fake,
		runner: runner,
	}
}

func boolPtr(b bool) *bool { return &b }

const hooksReplyText = `Here you go: {"hooks":[{"id":"hook_1","text":"X","hookType":"Tal-hook","outline":["a","b"]}]}`

func TestGenerateHooksScenario(t *testing.T) {
	h := newHarness(t, llmtest.Text(hooksReplyText))

	resp, err := h.svc.GenerateHooks(context.Background(), HookRequest{
		UserID:         testUserID,
		Language:       "da",
		Tone:           "professional",
		BulletPoints:   "AI changes hiring",
		IncludeScoring: boolPtr(false),
	})
	require.NoError(t, err)

	require.Equal(t, 1, h.llm.Calls())
	assert.Contains(t, h.llm.Prompt(0), "AI changes hiring")
	assert.Contains(t, h.llm.Prompt(0), "professional")
	assert.Equal(t, "hooks/generation", h.llm.Requests[0].Phase)

	require.Len(t, resp.Hooks, 1)
	assert.Equal(t, "X", resp.Hooks[0].Text)
	assert.Equal(t, "Tal-hook", resp.Hooks[0].HookType)
	assert.Equal(t, []string{"a", "b"}, resp.Hooks[0].Outline)
	assert.Nil(t, resp.Hooks[0].Scoring)
	assert.Nil(t, resp.Scoring)

	h.runner.Wait()
	require.Len(t, h.store.hooks, 1)
	assert.Equal(t, "AI changes hiring", h.store.hooks[0].InputText)
	assert.Equal(t, "da", h.store.hooks[0].Language)
	assert.JSONEq(t, "null", string(h.store.hooks[0].Scoring))
	assert.Empty(t, h.store.scoreRows)
	assert.Equal(t, 1, h.store.increments)
	require.Len(t, h.store.calls, 1)
	assert.True(t, h.store.calls[0].Success)
	assert.Equal(t, testUserID, h.store.calls[0].UserID)
	assert.Equal(t, hooksReplyText, h.store.calls[0].Response)
}

func TestGenerateHooksUnknownUserMakesNoCalls(t *testing.T) {
	h := newHarness(t, llmtest.Text(hooksReplyText))

	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{
		UserID:       "9d1e0c55-0000-4000-8000-000000000000",
		BulletPoints: "AI changes hiring",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, h.llm.Calls())

	h.runner.Wait()
	assert.Zero(t, h.store.increments)
}

func TestGenerateHooksQuotaExceeded(t *testing.T) {
	h := newHarness(t, llmtest.Text(hooksReplyText))
	h.store.users[testUserID].MonthlyCreditsUsed = 50

	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{UserID: testUserID, BulletPoints: "x"})
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Zero(t, h.llm.Calls())
}

func TestGenerateHooksUserLookupFailure(t *testing.T) {
	h := newHarness(t)
	h.store.findErr = errDBDown

	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{UserID: testUserID, BulletPoints: "x"})
	assert.ErrorIs(t, err, errDBDown)
	assert.NotErrorIs(t, err, ErrUserNotFound)
}

func TestGenerateHooksUnparsableReply(t *testing.T) {
	h := newHarness(t, llmtest.Text("Sorry, I can only answer in prose today."))

	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{
		UserID:       testUserID,
		BulletPoints: "AI changes hiring",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, llm.ErrParse)

	var pe *llm.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Contains(t, pe.Raw, "prose")

	h.runner.Wait()
	assert.Empty(t, h.store.hooks)
	assert.Zero(t, h.store.increments)
	require.Len(t, h.store.calls, 1, "the raw reply is still recorded")
	assert.Equal(t, "Sorry, I can only answer in prose today.", h.store.calls[0].Response)
}

func TestGenerateHooksEmptyHookList(t *testing.T) {
	h := newHarness(t, llmtest.Text(`{"analysis":{"centralInsight":"x"},"hooks":[]}`))

	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{UserID: testUserID, BulletPoints: "x"})
	assert.ErrorIs(t, err, llm.ErrParse)
}

func TestGenerateHooksProviderError(t *testing.T) {
	provErr := &llm.ProviderError{Provider: "fake", StatusCode: 429, Err: errors.New("rate limited")}
	h := newHarness(t, llmtest.Fail(provErr))

	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{UserID: testUserID, BulletPoints: "x"})
	assert.ErrorIs(t, err, llm.ErrProvider)
	assert.NotErrorIs(t, err, llm.ErrParse)

	h.runner.Wait()
	require.Len(t, h.store.calls, 1)
	assert.False(t, h.store.calls[0].Success)
	assert.Contains(t, h.store.calls[0].Error, "rate limited")
}

const twoHooksReply = `{"analysis":{"centralInsight":"hiring is changing","emotionalDriver":"curiosity","postArchetype":"contrarian opinion"},
"hooks":[
 {"id":"hook_1","text":"Your CV is read by a robot first.","hookType":"Bold claim","outline":["Intro","Body","Close"]},
 {"id":"hook_2","text":"I hired 12 people without a single interview.","hookType":"Confession hook","outline":["Intro","Close"]}
]}`

const twoScoresReply = `{"scores":[
 {"hookId":"hook_1","scores":{"scrollStop":2,"curiosityGap":2,"relatability":1.5,"specificity":1.5},"bonuses":[],"penalties":[],"totalScore":7.0,"grade":"B","reasoning":"ok","improvementTip":"add a number"},
 {"hookId":"hook_2","scores":{"scrollStop":2.5,"curiosityGap":2.5,"relatability":2,"specificity":2},"bonuses":["pattern_interrupt"],"penalties":[],"totalScore":9.5,"grade":"A+","reasoning":"strong","improvementTip":"none"}
]}`

func TestGenerateHooksWithScoring(t *testing.T) {
	h := newHarness(t, llmtest.Text(twoHooksReply), llmtest.Text(twoScoresReply))

	resp, err := h.svc.GenerateHooks(context.Background(), HookRequest{
		UserID:         testUserID,
		BulletPoints:   "AI changes hiring",
		TargetAudience: "recruiters",
	})
	require.NoError(t, err)
	require.Equal(t, 2, h.llm.Calls())
	assert.Equal(t, "hooks/scoring", h.llm.Requests[1].Phase)
	assert.Contains(t, h.llm.Prompt(1), "I hired 12 people without a single interview.")
	assert.Contains(t, h.llm.Prompt(1), "recruiters")

	require.NotNil(t, resp.Analysis)
	assert.Equal(t, "hiring is changing", resp.Analysis.CentralInsight)
	require.NotNil(t, resp.Scoring)
	assert.Equal(t, 8.3, resp.Scoring.AverageScore)
	assert.Equal(t, "hook_2", resp.Scoring.BestHookID)
	assert.False(t, resp.Scoring.Degraded)
	require.Len(t, resp.Hooks, 2)
	require.NotNil(t, resp.Hooks[1].Scoring)
	assert.Equal(t, "A+", resp.Hooks[1].Scoring.Grade)

	h.runner.Wait()
	require.Len(t, h.store.scoreRows, 2)
	assert.Equal(t, "Confession hook", h.store.scoreRows[1].HookType)
	assert.Equal(t, 9.5, h.store.scoreRows[1].TotalScore)
	assert.Equal(t, "recruiters", h.store.scoreRows[1].TargetAudience)
	assert.Equal(t, hookScoreSource, h.store.scoreRows[1].Source)
	assert.JSONEq(t, `["pattern_interrupt"]`, string(h.store.scoreRows[1].Bonuses))
	assert.Equal(t, 1, h.store.increments)
	assert.Len(t, h.store.calls, 2)
}

func TestGenerateHooksScoringDegraded(t *testing.T) {
	h := newHarness(t, llmtest.Text(twoHooksReply), llmtest.Text("no json here"))

	resp, err := h.svc.GenerateHooks(context.Background(), HookRequest{UserID: testUserID, BulletPoints: "x"})
	require.NoError(t, err)
	require.NotNil(t, resp.Scoring)
	assert.True(t, resp.Scoring.Degraded)
	assert.Zero(t, resp.Scoring.AverageScore)
	assert.Nil(t, resp.Scoring.BestHook)
	assert.Len(t, resp.Hooks, 2)

	h.runner.Wait()
	assert.Len(t, h.store.hooks, 1)
	assert.Empty(t, h.store.scoreRows)
	assert.Equal(t, 1, h.store.increments)
}

func TestGenerateHooksDeepResearch(t *testing.T) {
	h := newHarness(t,
		llmtest.Text("  Recruiters in Denmark report 40% of CVs are AI written.  "),
		llmtest.Text(hooksReplyText),
	)

	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{
		UserID:         testUserID,
		BulletPoints:   "AI changes hiring",
		IncludeScoring: boolPtr(false),
		DeepResearch:   true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, h.llm.Calls())
	assert.Equal(t, "hooks/research", h.llm.Requests[0].Phase)
	assert.InDelta(t, 0.3, h.llm.Requests[0].Temperature, 1e-9)
	assert.Contains(t, h.llm.Prompt(1), "Recruiters in Denmark report 40% of CVs are AI written.")
}

func TestGenerateHooksPersistenceFailureIsIsolated(t *testing.T) {
	h := newHarness(t, llmtest.Text(twoHooksReply), llmtest.Text(twoScoresReply))
	h.store.failSaves = true

	resp, err := h.svc.GenerateHooks(context.Background(), HookRequest{UserID: testUserID, BulletPoints: "x"})
	require.NoError(t, err)
	assert.Len(t, resp.Hooks, 2)

	h.runner.Wait()
	assert.Empty(t, h.store.hooks)
	assert.Equal(t, 1, h.store.increments, "usage is incremented even when the content insert fails")
}

func TestGenerateHooksValidation(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.GenerateHooks(context.Background(), HookRequest{UserID: testUserID})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = h.svc.GenerateHooks(context.Background(), HookRequest{BulletPoints: "x"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, h.llm.Calls())
}

func TestAssignHookIDs(t *testing.T) {
	in := []models.Hook{
		{ID: "hook_1", Text: "a"},
		{ID: "", Text: "b"},
		{ID: "hook_1", Text: "c"},
		{ID: "custom", Text: "d"},
		{ID: "hook_2", Text: "e"},
	}
	got := assignHookIDs(in)
	ids := make([]string, len(got))
	for i, h := range got {
		ids[i] = h.ID
	}
	want := []string{"hook_1", "hook_2", "hook_3", "custom", "hook_5"}
	if diff := cmp.Diff(want, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "hook_1", in[2].ID, "input is not modified")
}

func TestGeneratePosts(t *testing.T) {
	h := newHarness(t, llmtest.Text(`{"posts":[
		{"content":"one two three four","angle":"story","wordCount":0},
		{"content":"short","angle":"list","wordCount":120}
	]}`))

	resp, err := h.svc.GeneratePosts(context.Background(), PostRequest{
		UserID:  testUserID,
		Hook:    "I fired my best client.",
		Outline: []string{"Intro: the call", "Close: the lesson"},
		Idea:    "saying no grows a business",
	})
	require.NoError(t, err)
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, 4, resp.Posts[0].WordCount)
	assert.Equal(t, 120, resp.Posts[1].WordCount)

	require.Equal(t, 1, h.llm.Calls())
	assert.Equal(t, "posts/generation", h.llm.Requests[0].Phase)
	assert.Contains(t, h.llm.Prompt(0), "I fired my best client.")
	assert.Contains(t, h.llm.Prompt(0), "- Intro: the call")
	assert.Contains(t, h.llm.Prompt(0), DefaultTone)

	h.runner.Wait()
	require.Len(t, h.store.posts, 1)
	assert.Equal(t, "saying no grows a business", h.store.posts[0].Idea)
	assert.Equal(t, 1, h.store.increments)
}

func TestGeneratePostsParseError(t *testing.T) {
	h := newHarness(t, llmtest.Text(`{"posts": "not a list"}`))
	_, err := h.svc.GeneratePosts(context.Background(), PostRequest{UserID: testUserID, Idea: "x"})
	assert.ErrorIs(t, err, llm.ErrParse)
}

func TestGenerateComments(t *testing.T) {
	h := newHarness(t, llmtest.Text("Sure!\n```json\n"+`{"postAnalysis":{"coreTopic":"hiring","posterIntent":"share","bestAngleForRelation":"question"},
"comments":[{"text":"Great point about CV screening, we saw the same","angle":"agree_add","strategy":"Low risk","reasoning":"adds data"}]}`+"\n```"))

	resp, err := h.svc.GenerateComments(context.Background(), CommentRequest{
		UserID:       testUserID,
		Relationship: "prospect",
		PostText:     "We stopped reading cover letters.",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.PostAnalysis)
	assert.Equal(t, "hiring", resp.PostAnalysis.CoreTopic)
	require.Len(t, resp.Comments, 1)
	assert.Equal(t, 9, resp.Comments[0].WordCount)

	assert.Contains(t, h.llm.Prompt(0), "potential customer or lead")
	assert.Contains(t, h.llm.Prompt(0), "We stopped reading cover letters.")
	assert.Equal(t, 2500, h.llm.Requests[0].MaxTokens)

	h.runner.Wait()
	require.Len(t, h.store.comments, 1)
	assert.Equal(t, "prospect", h.store.comments[0].Relationship)
	assert.Equal(t, 1, h.store.increments)
}

func TestGenerateCommentsUnknownUser(t *testing.T) {
	h := newHarness(t)
	_, err := h.svc.GenerateComments(context.Background(), CommentRequest{UserID: "someone-else", PostText: "x"})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Zero(t, h.llm.Calls())
}
