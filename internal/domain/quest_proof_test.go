package domain

import (
	"context"
	"fmt"
	"testing"

	"github.com/questbelief/backend/internal/common"
	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/dateutil"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func newTestProofDomain() *questProofDomain {
	userRepo := repository.NewUserRepository()
	return NewQuestProofDomain(
		repository.NewQuestProofRepository(),
		repository.NewQuestRepository(),
		userRepo,
		repository.NewBeliefRepository(),
		repository.NewUserQuestStatusRepository(),
		testutil.NewMockStorage(),
		common.NewGlobalRoleVerifier(userRepo),
		&testutil.MockRedisClient{},
	)
}

func submitProof(
	t *testing.T, d *questProofDomain, ctx context.Context, questID, text string,
) string {
	initResp, err := d.Init(ctx, &model.InitProofSubmissionRequest{
		QuestID: questID,
		Text:    text,
	})
	require.NoError(t, err)

	_, err = d.Confirm(ctx, &model.ConfirmProofSubmissionRequest{ID: initResp.ID})
	require.NoError(t, err)

	return initResp.ID
}

func Test_questProofDomain_Init(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)

	// An empty proof is rejected.
	_, err := proofDomain.Init(userCtx, &model.InitProofSubmissionRequest{
		QuestID: testutil.QuestEasy1.ID,
	})
	require.Error(t, err)
	require.Equal(t, errorx.New(errorx.BadRequest, "Proof needs text, photos, or voice messages"), err)

	// Too many photos are rejected.
	_, err = proofDomain.Init(userCtx, &model.InitProofSubmissionRequest{
		QuestID:    testutil.QuestEasy1.ID,
		PhotoCount: 6,
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow more than 5 photos"), err)

	// An unknown quest is rejected.
	_, err = proofDomain.Init(userCtx, &model.InitProofSubmissionRequest{
		QuestID: "not-exists",
		Text:    "done",
	})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found quest"), err)

	resp, err := proofDomain.Init(userCtx, &model.InitProofSubmissionRequest{
		QuestID:    testutil.QuestEasy1.ID,
		Text:       "walked around the block",
		PhotoCount: 2,
		VoiceCount: 1,
	})
	require.NoError(t, err)
	require.Equal(t, string(entity.ProofUploading), resp.Status)
	require.Len(t, resp.PhotoUploadURLs, 2)
	require.Len(t, resp.VoiceUploadURLs, 1)
	require.Contains(t, resp.PhotoUploadURLs[0],
		fmt.Sprintf("users/%s/proofs/%s/photos/photo_0.jpg", testutil.User1.ID, resp.ID))
	require.Contains(t, resp.VoiceUploadURLs[0],
		fmt.Sprintf("users/%s/proofs/%s/audio/voice_0.ogg", testutil.User1.ID, resp.ID))
}

func Test_questProofDomain_Confirm(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	initResp, err := proofDomain.Init(userCtx, &model.InitProofSubmissionRequest{
		QuestID: testutil.QuestEasy1.ID,
		Text:    "done",
	})
	require.NoError(t, err)

	// Another user cannot confirm someone else's proof.
	otherCtx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	_, err = proofDomain.Confirm(otherCtx, &model.ConfirmProofSubmissionRequest{ID: initResp.ID})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found proof"), err)

	_, err = proofDomain.Confirm(userCtx, &model.ConfirmProofSubmissionRequest{ID: initResp.ID})
	require.NoError(t, err)

	proof, err := repository.NewQuestProofRepository().GetByID(ctx, initResp.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ProofPending, proof.Status)

	// The submission day's status row follows the proof.
	status, err := repository.NewUserQuestStatusRepository().Get(
		ctx, testutil.User1.ID, testutil.QuestEasy1.ID, dateutil.Today())
	require.NoError(t, err)
	require.Equal(t, entity.StatusInPending, status.Status)

	// A second confirm is rejected.
	_, err = proofDomain.Confirm(userCtx, &model.ConfirmProofSubmissionRequest{ID: initResp.ID})
	require.Equal(t, errorx.New(errorx.AlreadyExists, "Proof has already been confirmed"), err)

	_, err = proofDomain.Confirm(userCtx, &model.ConfirmProofSubmissionRequest{ID: "not-exists"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found proof"), err)
}

func Test_questProofDomain_ToggleBelief(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()
	beliefRepo := repository.NewBeliefRepository()
	proofRepo := repository.NewQuestProofRepository()

	// A hard quest by a level-5 author needs five beliefs, so single
	// toggles keep the proof pending.
	authorCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	proofID := submitProof(t, proofDomain, authorCtx, testutil.QuestHard1.ID, "ran 10k")

	// The author cannot believe their own proof.
	_, err := proofDomain.ToggleBelief(authorCtx, &model.ToggleBeliefRequest{ProofID: proofID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Not allow believing your own proof"), err)

	viewerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	resp, err := proofDomain.ToggleBelief(viewerCtx, &model.ToggleBeliefRequest{ProofID: proofID})
	require.NoError(t, err)
	require.True(t, resp.Believed)

	// The counter matches the live belief rows.
	proof, err := proofRepo.GetByID(ctx, proofID)
	require.NoError(t, err)
	require.Equal(t, 1, proof.BeliefCount)
	count, err := beliefRepo.Count(ctx, proofID)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// Toggling again withdraws the belief.
	resp, err = proofDomain.ToggleBelief(viewerCtx, &model.ToggleBeliefRequest{ProofID: proofID})
	require.NoError(t, err)
	require.False(t, resp.Believed)

	proof, err = proofRepo.GetByID(ctx, proofID)
	require.NoError(t, err)
	require.Equal(t, 0, proof.BeliefCount)
	count, err = beliefRepo.Count(ctx, proofID)
	require.NoError(t, err)
	require.EqualValues(t, 0, count)

	_, err = proofDomain.ToggleBelief(viewerCtx, &model.ToggleBeliefRequest{ProofID: "not-exists"})
	require.Equal(t, errorx.New(errorx.NotFound, "Not found proof"), err)
}

func Test_questProofDomain_ToggleBelief_SameUserRaces(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()
	beliefRepo := repository.NewBeliefRepository()
	proofRepo := repository.NewQuestProofRepository()

	authorCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	proofID := submitProof(t, proofDomain, authorCtx, testutil.QuestHard1.ID, "ran 10k")

	proof, err := proofRepo.GetByID(ctx, proofID)
	require.NoError(t, err)

	// A parallel request inserted the belief first; the loser gets a
	// typed conflict instead of an internal error.
	require.NoError(t, beliefRepo.Create(ctx, &entity.Belief{
		UserID:  testutil.User1.ID,
		ProofID: proofID,
	}))
	err = proofDomain.addBelief(ctx, testutil.User1.ID, proof)
	require.Equal(t, errorx.New(errorx.AlreadyExists, "You have already believed this proof"), err)

	// A parallel request withdrew the belief first.
	require.NoError(t, beliefRepo.Delete(ctx, testutil.User1.ID, proofID))
	err = proofDomain.removeBelief(ctx, testutil.User1.ID, proofID)
	require.Equal(t, errorx.New(errorx.AlreadyExists, "You have already withdrawn this belief"), err)

	// Neither loser touched the counter.
	proof, err = proofRepo.GetByID(ctx, proofID)
	require.NoError(t, err)
	require.Equal(t, 0, proof.BeliefCount)
}

func Test_questProofDomain_ConsensusThreshold(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()
	userRepo := repository.NewUserRepository()
	proofRepo := repository.NewQuestProofRepository()
	statusRepo := repository.NewUserQuestStatusRepository()

	authorCtx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	proofID := submitProof(t, proofDomain, authorCtx, testutil.QuestHard1.ID, "ran 10k")

	believers := []string{testutil.User1.ID, testutil.User2.ID}
	for i := 0; i < 3; i++ {
		believer := &entity.User{
			Base:  entity.Base{ID: fmt.Sprintf("believer%d", i)},
			Name:  fmt.Sprintf("believer%d", i),
			Role:  entity.RoleUser,
			Level: 1,
		}
		require.NoError(t, userRepo.Create(ctx, believer))
		believers = append(believers, believer.ID)
	}

	// Four beliefs leave the proof one short of the threshold.
	for _, believerID := range believers[:4] {
		believerCtx := testutil.MockContextWithUserID(ctx, believerID)
		_, err := proofDomain.ToggleBelief(believerCtx, &model.ToggleBeliefRequest{ProofID: proofID})
		require.NoError(t, err)
	}

	proof, err := proofRepo.GetByID(ctx, proofID)
	require.NoError(t, err)
	require.Equal(t, entity.ProofPending, proof.Status)
	require.Equal(t, 4, proof.BeliefCount)

	// The fifth belief crosses the threshold: the proof is approved,
	// the assignment completes, and the author is rewarded once.
	lastCtx := testutil.MockContextWithUserID(ctx, believers[4])
	_, err = proofDomain.ToggleBelief(lastCtx, &model.ToggleBeliefRequest{ProofID: proofID})
	require.NoError(t, err)

	proof, err = proofRepo.GetByID(ctx, proofID)
	require.NoError(t, err)
	require.Equal(t, entity.ProofApproved, proof.Status)

	status, err := statusRepo.Get(ctx, testutil.User3.ID, testutil.QuestHard1.ID, dateutil.Today())
	require.NoError(t, err)
	require.Equal(t, entity.StatusCompleted, status.Status)
	require.True(t, status.IsCompleted)

	author, err := userRepo.GetByID(ctx, testutil.User3.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.User3.XP+testutil.QuestHard1.XPReward, author.XP)
	require.Equal(t, 6, author.Level)

	// An approved proof no longer accepts beliefs.
	believerCtx := testutil.MockContextWithUserID(ctx, believers[0])
	_, err = proofDomain.ToggleBelief(believerCtx, &model.ToggleBeliefRequest{ProofID: proofID})
	require.Equal(t, errorx.New(errorx.BadRequest, "Proof is not open for beliefs"), err)
}

func Test_questProofDomain_Review(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()
	userRepo := repository.NewUserRepository()
	proofRepo := repository.NewQuestProofRepository()

	authorCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	proofID := submitProof(t, proofDomain, authorCtx, testutil.QuestMedium2.ID, "practiced scales")

	// Ordinary users cannot review.
	_, err := proofDomain.Review(authorCtx, &model.ReviewProofRequest{
		ID:     proofID,
		Action: string(entity.ProofApproved),
	})
	require.Equal(t, errorx.New(errorx.PermissionDenied, "Permission denied"), err)

	adminCtx := testutil.MockContextWithUserID(ctx, testutil.Admin.ID)
	_, err = proofDomain.Review(adminCtx, &model.ReviewProofRequest{
		ID:     proofID,
		Action: "pending",
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Invalid review action pending"), err)

	_, err = proofDomain.Review(adminCtx, &model.ReviewProofRequest{
		ID:     proofID,
		Action: string(entity.ProofApproved),
	})
	require.NoError(t, err)

	proof, err := proofRepo.GetByID(ctx, proofID)
	require.NoError(t, err)
	require.Equal(t, entity.ProofApproved, proof.Status)

	author, err := userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.QuestMedium2.XPReward, author.XP)

	// A settled proof cannot be reviewed again.
	_, err = proofDomain.Review(adminCtx, &model.ReviewProofRequest{
		ID:     proofID,
		Action: string(entity.ProofRejected),
	})
	require.Equal(t, errorx.New(errorx.BadRequest, "Proof is not awaiting review"), err)

	// Rejection settles the proof without completing the quest.
	rejectedID := submitProof(t, proofDomain, authorCtx, testutil.QuestMedium1.ID, "read nothing")
	_, err = proofDomain.Review(adminCtx, &model.ReviewProofRequest{
		ID:     rejectedID,
		Action: string(entity.ProofRejected),
	})
	require.NoError(t, err)

	proof, err = proofRepo.GetByID(ctx, rejectedID)
	require.NoError(t, err)
	require.Equal(t, entity.ProofRejected, proof.Status)

	author, err = userRepo.GetByID(ctx, testutil.User1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.QuestMedium2.XPReward, author.XP)
}

func Test_questProofDomain_GetFeed(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()

	user2Ctx := testutil.MockContextWithUserID(ctx, testutil.User2.ID)
	proof1 := submitProof(t, proofDomain, user2Ctx, testutil.QuestEasy1.ID, "walked")
	user3Ctx := testutil.MockContextWithUserID(ctx, testutil.User3.ID)
	proof2 := submitProof(t, proofDomain, user3Ctx, testutil.QuestHard1.ID, "ran 10k")

	viewerCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	_, err := proofDomain.ToggleBelief(viewerCtx, &model.ToggleBeliefRequest{ProofID: proof2})
	require.NoError(t, err)

	// User1 sees both pending proofs with the belief flag resolved.
	feed, err := proofDomain.GetFeed(viewerCtx, &model.GetProofFeedRequest{})
	require.NoError(t, err)
	require.Len(t, feed.Proofs, 2)
	require.False(t, feed.HasMore)

	believedByID := map[string]bool{}
	for _, proof := range feed.Proofs {
		believedByID[proof.ID] = proof.IsBelieved
	}
	require.True(t, believedByID[proof2])
	require.False(t, believedByID[proof1])

	// The author's own proofs never show up in their feed.
	feed, err = proofDomain.GetFeed(user2Ctx, &model.GetProofFeedRequest{})
	require.NoError(t, err)
	require.Len(t, feed.Proofs, 1)
	require.Equal(t, proof2, feed.Proofs[0].ID)

	// A short page reports more results and where to resume.
	feed, err = proofDomain.GetFeed(viewerCtx, &model.GetProofFeedRequest{Limit: 1})
	require.NoError(t, err)
	require.Len(t, feed.Proofs, 1)
	require.True(t, feed.HasMore)
	require.Equal(t, 1, feed.NextOffset)

	feed, err = proofDomain.GetFeed(viewerCtx, &model.GetProofFeedRequest{Offset: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, feed.Proofs, 1)
	require.False(t, feed.HasMore)
}

func Test_questProofDomain_GetAndHistory(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofDomain := newTestProofDomain()

	userCtx := testutil.MockContextWithUserID(ctx, testutil.User1.ID)
	initResp, err := proofDomain.Init(userCtx, &model.InitProofSubmissionRequest{
		QuestID:    testutil.QuestEasy1.ID,
		Text:       "walked",
		PhotoCount: 1,
	})
	require.NoError(t, err)
	_, err = proofDomain.Confirm(userCtx, &model.ConfirmProofSubmissionRequest{ID: initResp.ID})
	require.NoError(t, err)

	proof, err := proofDomain.Get(userCtx, &model.GetProofRequest{ID: initResp.ID})
	require.NoError(t, err)
	require.Equal(t, testutil.User1.Name, proof.UserName)
	require.Equal(t, testutil.QuestEasy1.Title, proof.QuestTitle)
	require.Len(t, proof.PhotoURLs, 1)
	require.Contains(t, proof.PhotoURLs[0], "photos/photo_0.jpg")

	history, err := proofDomain.GetHistory(userCtx, &model.GetProofHistoryRequest{})
	require.NoError(t, err)
	require.Len(t, history.Proofs, 1)
	require.Equal(t, initResp.ID, history.Proofs[0].ID)

	otherHistory, err := proofDomain.GetHistory(
		testutil.MockContextWithUserID(ctx, testutil.User2.ID), &model.GetProofHistoryRequest{})
	require.NoError(t, err)
	require.Empty(t, otherHistory.Proofs)
}
