package repository_test

import (
	"testing"

	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_questProofRepository_UpdateStatus(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofRepo := repository.NewQuestProofRepository()

	proof := &entity.QuestProof{
		Base:    entity.Base{ID: "proof1"},
		QuestID: testutil.QuestEasy1.ID,
		UserID:  testutil.User1.ID,
		Text:    "done",
		Status:  entity.ProofUploading,
	}
	require.NoError(t, proofRepo.Create(ctx, proof))

	err := proofRepo.UpdateStatus(ctx, proof.ID, entity.ProofUploading, entity.ProofPending)
	require.NoError(t, err)

	// The source status is part of the predicate, so replaying the
	// same transition hits no row.
	err = proofRepo.UpdateStatus(ctx, proof.ID, entity.ProofUploading, entity.ProofPending)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	loaded, err := proofRepo.GetByID(ctx, proof.ID)
	require.NoError(t, err)
	require.Equal(t, entity.ProofPending, loaded.Status)
}

func Test_questProofRepository_IncreaseBeliefCount(t *testing.T) {
	ctx := testutil.MockContext()
	testutil.CreateFixtureDb(ctx)
	proofRepo := repository.NewQuestProofRepository()

	proof := &entity.QuestProof{
		Base:    entity.Base{ID: "proof1"},
		QuestID: testutil.QuestEasy1.ID,
		UserID:  testutil.User1.ID,
		Status:  entity.ProofPending,
	}
	require.NoError(t, proofRepo.Create(ctx, proof))

	require.NoError(t, proofRepo.IncreaseBeliefCount(ctx, proof.ID, 1))
	require.NoError(t, proofRepo.IncreaseBeliefCount(ctx, proof.ID, -1))

	// The counter never goes below zero.
	err := proofRepo.IncreaseBeliefCount(ctx, proof.ID, -1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	loaded, err := proofRepo.GetByID(ctx, proof.ID)
	require.NoError(t, err)
	require.Equal(t, 0, loaded.BeliefCount)
}
