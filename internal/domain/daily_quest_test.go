package domain

import (
	"testing"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/dateutil"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/randutil"
	"github.com/questbelief/backend/pkg/testutil"
	"github.com/questbelief/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestDailyQuestDomain() *dailyQuestDomain {
	return NewDailyQuestDomain(
		repository.NewQuestRepository(),
		repository.NewUserQuestStatusRepository(),
		randutil.NewLockedRand(1),
	)
}

func Test_dailyQuestDomain_GetDailyQuests(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	dailyDomain := newTestDailyQuestDomain()

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := dailyDomain.GetDailyQuests(userCtx, &model.GetDailyQuestsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Quests, 5)

	byComplexity := map[string]int{}
	for _, dailyQuest := range resp.Quests {
		byComplexity[dailyQuest.Quest.Complexity]++
		require.Equal(t, string(entity.StatusNotStarted), dailyQuest.Status.Status)
	}
	require.Equal(t, 2, byComplexity[string(entity.QuestEasy)])
	require.Equal(t, 2, byComplexity[string(entity.QuestMedium)])
	require.Equal(t, 1, byComplexity[string(entity.QuestHard)])

	// The second call of the day returns the same set.
	again, err := dailyDomain.GetDailyQuests(userCtx, &model.GetDailyQuestsRequest{})
	require.NoError(t, err)
	require.Equal(t, questIDsOf(resp), questIDsOf(again))

	// A different day draws a fresh set.
	otherDay, err := dailyDomain.GetDailyQuests(userCtx, &model.GetDailyQuestsRequest{
		Date: "2026-01-02",
	})
	require.NoError(t, err)
	require.Len(t, otherDay.Quests, 5)
	require.Equal(t, "2026-01-02", otherDay.Quests[0].Status.AssignedDate)

	_, err = dailyDomain.GetDailyQuests(userCtx, &model.GetDailyQuestsRequest{Date: "02-01-2026"})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid date 02-01-2026"), err)
}

func Test_dailyQuestDomain_GetDailyQuests_ShortPool(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	dailyDomain := newTestDailyQuestDomain()

	// Ask for more hard quests than the catalog holds; the set comes
	// back short instead of failing.
	cfg := xcontext.Configs(ctx)
	cfg.Quest.DailyHardQuests = 3
	shortCtx := xcontext.WithConfigs(ctx, cfg)
	shortCtx = testutil.MockContextWithUserID(shortCtx, testutil.User2.ID)

	resp, err := dailyDomain.GetDailyQuests(shortCtx, &model.GetDailyQuestsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Quests, 5)

	hard := 0
	for _, dailyQuest := range resp.Quests {
		if dailyQuest.Quest.Complexity == string(entity.QuestHard) {
			hard++
		}
	}
	require.Equal(t, 1, hard)
}

func Test_dailyQuestDomain_Assign_ConcurrentFallback(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	dailyDomain := newTestDailyQuestDomain()
	statusRepo := repository.NewUserQuestStatusRepository()

	// Another request already assigned every catalog quest for the day,
	// so whatever the sampler draws collides on insert.
	today := dateutil.Today()
	winner := []*entity.UserQuestStatus{}
	for _, quest := range []entity.Quest{
		testutil.QuestEasy1, testutil.QuestEasy2,
		testutil.QuestMedium1, testutil.QuestMedium2,
		testutil.QuestHard1,
	} {
		winner = append(winner, &entity.UserQuestStatus{
			UserID:       testutil.User1.ID,
			QuestID:      quest.ID,
			AssignedDate: today,
			Status:       entity.StatusNotStarted,
		})
	}
	winner[0].Status = entity.StatusInPending
	require.NoError(t, statusRepo.CreateList(ctx, winner))

	statuses, err := dailyDomain.assign(ctx, testutil.User1.ID, today)
	require.NoError(t, err)
	require.Len(t, statuses, 5)

	// The loser sees the winner's rows, not a fresh draw.
	byQuest := map[string]entity.UserQuestStatus{}
	for _, status := range statuses {
		byQuest[status.QuestID] = status
	}
	require.Equal(t, entity.StatusInPending, byQuest[winner[0].QuestID].Status)

	remaining, err := statusRepo.GetByUserAndDate(ctx, testutil.User1.ID, today)
	require.NoError(t, err)
	require.Len(t, remaining, 5)
}

func Test_dailyQuestDomain_GetQuestStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	dailyDomain := newTestDailyQuestDomain()

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := dailyDomain.GetDailyQuests(userCtx, &model.GetDailyQuestsRequest{})
	require.NoError(t, err)

	status, err := dailyDomain.GetQuestStatus(userCtx, &model.GetQuestStatusRequest{
		QuestID: resp.Quests[0].Quest.ID,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.StatusNotStarted), status.Status)

	_, err = dailyDomain.GetQuestStatus(userCtx, &model.GetQuestStatusRequest{
		QuestID: "not-exists",
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found quest status"), err)
}

func Test_dailyQuestDomain_GetJournal(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	dailyDomain := newTestDailyQuestDomain()

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := dailyDomain.GetDailyQuests(userCtx, &model.GetDailyQuestsRequest{})
	require.NoError(t, err)
	require.Len(t, resp.Quests, 5)

	// A status row from a past day belongs to the journal as well.
	pastQuest := &entity.Quest{
		Base:           entity.Base{ID: "quest_journal_past"},
		Title:          "Evening stretch",
		Complexity:     entity.QuestEasy,
		XPReward:       10,
		ValidationType: entity.ValidationAutomatic,
		TargetValue:    1,
	}
	require.NoError(t, repository.NewQuestRepository().Create(ctx, pastQuest))
	require.NoError(t, repository.NewUserQuestStatusRepository().Create(ctx, &entity.UserQuestStatus{
		UserID:       testutil.User1.ID,
		QuestID:      pastQuest.ID,
		AssignedDate: "2026-08-30",
		Status:       entity.StatusCompleted,
		IsCompleted:  true,
	}))

	journal, err := dailyDomain.GetJournal(userCtx, &model.GetJournalRequest{})
	require.NoError(t, err)
	require.Len(t, journal.Entries, 6)
	for _, entry := range journal.Entries {
		require.NotEmpty(t, entry.Quest.Title)
		require.Equal(t, entry.Quest.ID, entry.Status.QuestID)
	}

	// Newest day first, so the past row comes last.
	last := journal.Entries[len(journal.Entries)-1]
	require.Equal(t, pastQuest.ID, last.Quest.ID)
	require.Equal(t, "2026-08-30", last.Status.AssignedDate)

	// Entries whose quest disappeared are dropped from the journal.
	err = xcontext.DB(ctx).Unscoped().Delete(&entity.Quest{}, "id=?", pastQuest.ID).Error
	require.NoError(t, err)

	journal, err = dailyDomain.GetJournal(userCtx, &model.GetJournalRequest{})
	require.NoError(t, err)
	require.Len(t, journal.Entries, 5)
}

func questIDsOf(resp *model.GetDailyQuestsResponse) []string {
	ids := []string{}
	for _, dailyQuest := range resp.Quests {
		ids = append(ids, dailyQuest.Quest.ID)
	}

	return ids
}
