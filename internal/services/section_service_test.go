package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/content"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/portfolio-backend/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newTestSections(t *testing.T) (*SectionService, context.Context) {
	t.Helper()
	svc := NewSectionService(newTestStore(t))
	svc.now = fixedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))
	return svc, context.Background()
}

func TestAddSection_ThenList(t *testing.T) {
	svc, ctx := newTestSections(t)

	id, err := svc.AddSection(ctx, 1, &dto.SectionPatch{
		Title:   ptr("Publications"),
		Type:    ptr(models.SectionList),
		Content: json.RawMessage(`["A","B"]`),
	})
	require.NoError(t, err)
	assert.Regexp(t, `^section-\d+$`, id)

	got := svc.ListSections(ctx, 1, false)
	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, "Publications", got[0].Title)
	assert.True(t, got[0].Visible)
	assert.Equal(t, 0, got[0].Order)
	if diff := cmp.Diff(content.List{"A", "B"}, got[0].Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, svc.ListSections(ctx, 2, false))
}

func TestAddSection_DistinctIDs(t *testing.T) {
	st := newTestStore(t)
	svc := NewSectionService(st)
	frozen := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return frozen }
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		id, err := svc.AddSection(ctx, 1, &dto.SectionPatch{Title: ptr("s")})
		require.NoError(t, err)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}

	got := svc.ListSections(ctx, 1, false)
	require.Len(t, got, 5)
	for i, s := range got {
		assert.Equal(t, i, s.Order)
	}
}

func TestAddSection_ConcurrentWritersKeepAll(t *testing.T) {
	svc, ctx := newTestSections(t)
	var clockMu sync.Mutex
	base := svc.now
	svc.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return base()
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddSection(ctx, 1, &dto.SectionPatch{Title: ptr("x")})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, svc.ListSections(ctx, 1, false), 10)
}

func TestAddSection_Validation(t *testing.T) {
	svc, ctx := newTestSections(t)

	_, err := svc.AddSection(ctx, 1, &dto.SectionPatch{Type: ptr(models.SectionType("gallery"))})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddSection(ctx, 1, &dto.SectionPatch{Type: ptr(models.SectionList), Content: json.RawMessage(`{"a":1}`)})
	require.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, svc.ListSections(ctx, 1, false))
}

func TestAddSection_DefaultsToText(t *testing.T) {
	svc, ctx := newTestSections(t)

	_, err := svc.AddSection(ctx, 1, &dto.SectionPatch{Title: ptr("About"), Content: json.RawMessage(`"Hello"`)})
	require.NoError(t, err)

	got := svc.ListSections(ctx, 1, false)
	require.Len(t, got, 1)
	assert.Equal(t, models.SectionText, got[0].Type)
	assert.Equal(t, content.Text("Hello"), got[0].Content)
}

func TestUpsertSection_CreateThenUpdate(t *testing.T) {
	svc, ctx := newTestSections(t)

	require.NoError(t, svc.UpsertSection(ctx, 1, "custom", &dto.SectionPatch{
		Title:   ptr("Projects"),
		Type:    ptr(models.SectionCards),
		Content: json.RawMessage(`[{"title":"P1","url":"https://example.com"}]`),
	}))

	require.NoError(t, svc.UpsertSection(ctx, 1, "custom", &dto.SectionPatch{
		Visible:      ptr(false),
		SectionOrder: ptr(3),
	}))

	got := svc.ListSections(ctx, 1, false)
	require.Len(t, got, 1)
	assert.Equal(t, "custom", got[0].ID)
	assert.Equal(t, "Projects", got[0].Title)
	assert.False(t, got[0].Visible)
	assert.Equal(t, 3, got[0].Order)
	require.NotNil(t, got[0].UpdatedAt)
	want := content.Cards{{"title": "P1", "url": "https://example.com"}}
	if diff := cmp.Diff(want, got[0].Content); diff != "" {
		t.Errorf("content mismatch (-want +got):\n%s", diff)
	}

	assert.Empty(t, svc.ListSections(ctx, 1, true))
}

func TestUpsertSection_SameIDOtherUserCreatesSeparate(t *testing.T) {
	svc, ctx := newTestSections(t)

	require.NoError(t, svc.UpsertSection(ctx, 1, "about", &dto.SectionPatch{Title: ptr("mine")}))
	require.NoError(t, svc.UpsertSection(ctx, 2, "about", &dto.SectionPatch{Title: ptr("theirs")}))

	assert.Equal(t, "mine", svc.ListSections(ctx, 1, false)[0].Title)
	assert.Equal(t, "theirs", svc.ListSections(ctx, 2, false)[0].Title)
}

func TestUpsertSection_TypeChangeReencodesContent(t *testing.T) {
	svc, ctx := newTestSections(t)

	require.NoError(t, svc.UpsertSection(ctx, 1, "s", &dto.SectionPatch{Content: json.RawMessage(`"plain"`)}))
	require.NoError(t, svc.UpsertSection(ctx, 1, "s", &dto.SectionPatch{
		Type:    ptr(models.SectionList),
		Content: json.RawMessage(`["x"]`),
	}))

	got := svc.ListSections(ctx, 1, false)
	require.Len(t, got, 1)
	assert.Equal(t, content.List{"x"}, got[0].Content)
}

func TestUpsertSection_RequiresID(t *testing.T) {
	svc, ctx := newTestSections(t)
	err := svc.UpsertSection(ctx, 1, "  ", &dto.SectionPatch{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestListSections_UndecodableContentIsRaw(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, st.Save(ctx, &models.Document{
		Users:    []models.User{},
		Profiles: []models.Profile{},
		Sections: []models.Section{{ID: "broken", UserID: 1, Type: models.SectionList, Content: "not json", Visible: true}},
	}))

	got := NewSectionService(st).ListSections(ctx, 1, false)
	require.Len(t, got, 1)

	out, err := json.Marshal(got[0].Content)
	require.NoError(t, err)
	assert.JSONEq(t, `"not json"`, string(out))
}

func TestListSections_VisibleOnlyKeepsStoredOrder(t *testing.T) {
	svc, ctx := newTestSections(t)

	require.NoError(t, svc.UpsertSection(ctx, 1, "b", &dto.SectionPatch{Order: ptr(2)}))
	require.NoError(t, svc.UpsertSection(ctx, 1, "hidden", &dto.SectionPatch{Visible: ptr(false)}))
	require.NoError(t, svc.UpsertSection(ctx, 1, "a", &dto.SectionPatch{Order: ptr(1)}))

	var ids []string
	for _, s := range svc.ListSections(ctx, 1, true) {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestDeleteSection_Idempotent(t *testing.T) {
	svc, ctx := newTestSections(t)

	id, err := svc.AddSection(ctx, 1, &dto.SectionPatch{Title: ptr("x")})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSection(ctx, 1, id))
	require.NoError(t, svc.DeleteSection(ctx, 1, id))
	require.NoError(t, svc.DeleteSection(ctx, 1, "never-existed"))
	assert.Empty(t, svc.ListSections(ctx, 1, false))
}

func TestDeleteSection_OtherUserUntouched(t *testing.T) {
	svc, ctx := newTestSections(t)

	require.NoError(t, svc.UpsertSection(ctx, 2, "theirs", &dto.SectionPatch{}))
	require.NoError(t, svc.DeleteSection(ctx, 1, "theirs"))
	assert.Len(t, svc.ListSections(ctx, 2, false), 1)
}

func TestReorderSections_SkipsUnknownAndForeignIDs(t *testing.T) {
	svc, ctx := newTestSections(t)

	require.NoError(t, svc.UpsertSection(ctx, 1, "a", &dto.SectionPatch{}))
	require.NoError(t, svc.UpsertSection(ctx, 1, "b", &dto.SectionPatch{}))
	require.NoError(t, svc.UpsertSection(ctx, 2, "c", &dto.SectionPatch{Order: ptr(7)}))

	n, err := svc.ReorderSections(ctx, 1, []dto.SectionOrder{
		{ID: "a", Order: 5},
		{ID: "ghost", Order: 1},
		{ID: "b", Order: 4},
		{ID: "c", Order: 0},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	orders := map[string]int{}
	for _, s := range svc.ListSections(ctx, 1, false) {
		orders[s.ID] = s.Order
		assert.NotNil(t, s.UpdatedAt)
	}
	assert.Equal(t, map[string]int{"a": 5, "b": 4}, orders)
	assert.Equal(t, 7, svc.ListSections(ctx, 2, false)[0].Order)
}
