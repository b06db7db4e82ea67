package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	mathUtil "github.com/pkg/math"
	"github.com/questbelief/backend/internal/common"
	"github.com/questbelief/backend/internal/entity"
	"github.com/questbelief/backend/internal/model"
	"github.com/questbelief/backend/internal/repository"
	"github.com/questbelief/backend/pkg/dateutil"
	"github.com/questbelief/backend/pkg/enum"
	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/storage"
	"github.com/questbelief/backend/pkg/xcontext"
	"github.com/questbelief/backend/pkg/xredis"
	"gorm.io/gorm"
)

const (
	defaultFeedLimit = 10
	maxFeedLimit     = 50
)

type QuestProofDomain interface {
	Init(ctx context.Context, req *model.InitProofSubmissionRequest) (*model.InitProofSubmissionResponse, error)
	Confirm(ctx context.Context, req *model.ConfirmProofSubmissionRequest) (*model.ConfirmProofSubmissionResponse, error)
	Review(ctx context.Context, req *model.ReviewProofRequest) (*model.ReviewProofResponse, error)
	ToggleBelief(ctx context.Context, req *model.ToggleBeliefRequest) (*model.ToggleBeliefResponse, error)
	Get(ctx context.Context, req *model.GetProofRequest) (*model.GetProofResponse, error)
	GetFeed(ctx context.Context, req *model.GetProofFeedRequest) (*model.GetProofFeedResponse, error)
	GetHistory(ctx context.Context, req *model.GetProofHistoryRequest) (*model.GetProofHistoryResponse, error)
}

type questProofDomain struct {
	questProofRepo repository.QuestProofRepository
	questRepo      repository.QuestRepository
	userRepo       repository.UserRepository
	beliefRepo     repository.BeliefRepository
	statusRepo     repository.UserQuestStatusRepository
	storage        storage.Storage
	roleVerifier   *common.GlobalRoleVerifier
	completer      *questCompleter
}

func NewQuestProofDomain(
	questProofRepo repository.QuestProofRepository,
	questRepo repository.QuestRepository,
	userRepo repository.UserRepository,
	beliefRepo repository.BeliefRepository,
	statusRepo repository.UserQuestStatusRepository,
	storage storage.Storage,
	roleVerifier *common.GlobalRoleVerifier,
	redisClient xredis.Client,
) *questProofDomain {
	return &questProofDomain{
		questProofRepo: questProofRepo,
		questRepo:      questRepo,
		userRepo:       userRepo,
		beliefRepo:     beliefRepo,
		statusRepo:     statusRepo,
		storage:        storage,
		roleVerifier:   roleVerifier,
		completer:      newQuestCompleter(userRepo, statusRepo, redisClient),
	}
}

// Init registers a draft proof and hands out one presigned upload URL
// per requested file. The URLs are minted before the database
// transaction opens, so a storage outage never leaves a dangling row.
func (d *questProofDomain) Init(
	ctx context.Context, req *model.InitProofSubmissionRequest,
) (*model.InitProofSubmissionResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	fileCfg := xcontext.Configs(ctx).File

	if req.PhotoCount < 0 || req.VoiceCount < 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow a negative file count")
	}

	if req.Text == "" && req.PhotoCount == 0 && req.VoiceCount == 0 {
		return nil, errorx.New(errorx.BadRequest, "Proof needs text, photos, or voice messages")
	}

	if req.PhotoCount > fileCfg.MaxPhotosPerProof {
		return nil, errorx.New(errorx.BadRequest,
			"Not allow more than %d photos", fileCfg.MaxPhotosPerProof)
	}

	if req.VoiceCount > fileCfg.MaxVoicesPerProof {
		return nil, errorx.New(errorx.BadRequest,
			"Not allow more than %d voice messages", fileCfg.MaxVoicesPerProof)
	}

	quest, err := d.questRepo.GetByID(ctx, req.QuestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found quest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get quest: %v", err)
		return nil, errorx.Unknown
	}

	proofID := uuid.NewString()

	photoKeys, photoURLs, err := d.generateUploadSlots(
		ctx, userID, proofID, req.PhotoCount, storage.PhotoFile, fileCfg.UploadURLExpiration)
	if err != nil {
		return nil, err
	}

	voiceKeys, voiceURLs, err := d.generateUploadSlots(
		ctx, userID, proofID, req.VoiceCount, storage.VoiceFile, fileCfg.UploadURLExpiration)
	if err != nil {
		return nil, err
	}

	proof := &entity.QuestProof{
		Base:      entity.Base{ID: proofID},
		QuestID:   quest.ID,
		UserID:    userID,
		Text:      req.Text,
		PhotoKeys: photoKeys,
		VoiceKeys: voiceKeys,
		Status:    entity.ProofUploading,
	}

	if err := d.questProofRepo.Create(ctx, proof); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create proof: %v", err)
		return nil, errorx.Unknown
	}

	return &model.InitProofSubmissionResponse{
		ID:              proof.ID,
		Status:          string(proof.Status),
		PhotoUploadURLs: photoURLs,
		VoiceUploadURLs: voiceURLs,
	}, nil
}

func (d *questProofDomain) generateUploadSlots(
	ctx context.Context, userID, proofID string,
	count int, kind storage.FileKind, expiration time.Duration,
) ([]string, []string, error) {
	keys := []string{}
	urls := []string{}
	for i := 0; i < count; i++ {
		key := storage.ProofKey(userID, proofID, i, kind)
		url, err := d.storage.GenerateUploadURL(ctx, key, kind.ContentType(), expiration)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot generate upload url of %s: %v", key, err)
			return nil, nil, errorx.New(errorx.StorageFailure, "Cannot generate upload url")
		}

		keys = append(keys, key)
		urls = append(urls, url)
	}

	return keys, urls, nil
}

// Confirm moves the proof to pending after the client finished its
// uploads, and reflects the submission on the day's status row.
func (d *questProofDomain) Confirm(
	ctx context.Context, req *model.ConfirmProofSubmissionRequest,
) (*model.ConfirmProofSubmissionResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	proof, err := d.questProofRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found proof")
		}

		xcontext.Logger(ctx).Errorf("Cannot get proof: %v", err)
		return nil, errorx.Unknown
	}

	if proof.UserID != userID {
		return nil, errorx.New(errorx.NotFound, "Not found proof")
	}

	if proof.Status == entity.ProofPending {
		return nil, errorx.New(errorx.AlreadyExists, "Proof has already been confirmed")
	}

	if !proof.Status.CanTransitionTo(entity.ProofPending) {
		return nil, errorx.New(errorx.BadRequest, "Proof cannot be confirmed anymore")
	}

	err = d.questProofRepo.UpdateStatus(ctx, proof.ID, entity.ProofUploading, entity.ProofPending)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadyExists, "Proof has already been confirmed")
		}

		xcontext.Logger(ctx).Errorf("Cannot confirm proof: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.markInPending(ctx, userID, proof); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.ConfirmProofSubmissionResponse{}, nil
}

// markInPending moves the status row of the proof's submission day to
// in_pending, creating the row when the quest was never assigned that
// day. Terminal rows are left untouched.
func (d *questProofDomain) markInPending(
	ctx context.Context, userID string, proof *entity.QuestProof,
) error {
	date := dateutil.Day(proof.CreatedAt)

	status, err := d.statusRepo.Get(ctx, userID, proof.QuestID, date)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get status row: %v", err)
			return errorx.Unknown
		}

		err = d.statusRepo.Create(ctx, &entity.UserQuestStatus{
			UserID:       userID,
			QuestID:      proof.QuestID,
			AssignedDate: date,
			Status:       entity.StatusInPending,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create status row: %v", err)
			return errorx.Unknown
		}

		return nil
	}

	if !status.Status.CanTransitionTo(entity.StatusInPending) {
		return nil
	}

	err = d.statusRepo.UpdateStatus(ctx, userID, proof.QuestID, date,
		status.Status, entity.StatusInPending)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot update status row: %v", err)
		return errorx.Unknown
	}

	return nil
}

// Review is the moderation path. Only global admins may approve or
// reject a pending proof; approval completes the quest and awards the
// reward inside the same transaction.
func (d *questProofDomain) Review(
	ctx context.Context, req *model.ReviewProofRequest,
) (*model.ReviewProofResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.GlobalAdminRoles...); err != nil {
		xcontext.Logger(ctx).Debugf("Permission denied when reviewing proof: %v", err)
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	action, err := enum.ToEnum[entity.ProofStatus](req.Action)
	if err != nil || (action != entity.ProofApproved && action != entity.ProofRejected) {
		return nil, errorx.New(errorx.BadRequest, "Invalid review action %s", req.Action)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	proof, err := d.questProofRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found proof")
		}

		xcontext.Logger(ctx).Errorf("Cannot get proof: %v", err)
		return nil, errorx.Unknown
	}

	if !proof.Status.CanTransitionTo(action) {
		return nil, errorx.New(errorx.BadRequest, "Proof is not awaiting review")
	}

	err = d.questProofRepo.UpdateStatus(ctx, proof.ID, entity.ProofPending, action)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Proof is not awaiting review")
		}

		xcontext.Logger(ctx).Errorf("Cannot update proof status: %v", err)
		return nil, errorx.Unknown
	}

	if action == entity.ProofApproved {
		quest, err := d.questRepo.GetByID(ctx, proof.QuestID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get quest of proof: %v", err)
			return nil, errorx.Unknown
		}

		if _, err := d.completer.Complete(ctx, proof.UserID, quest); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot complete quest: %v", err)
			return nil, errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.ReviewProofResponse{}, nil
}

// ToggleBelief adds the caller's belief to a pending proof, or removes
// it when it already exists. Adding a belief may push the proof over
// its consensus threshold, which approves it and completes the quest
// in the same transaction.
func (d *questProofDomain) ToggleBelief(
	ctx context.Context, req *model.ToggleBeliefRequest,
) (*model.ToggleBeliefResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	proof, err := d.questProofRepo.GetByID(ctx, req.ProofID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found proof")
		}

		xcontext.Logger(ctx).Errorf("Cannot get proof: %v", err)
		return nil, errorx.Unknown
	}

	if proof.UserID == userID {
		return nil, errorx.New(errorx.BadRequest, "Not allow believing your own proof")
	}

	if proof.Status != entity.ProofPending {
		return nil, errorx.New(errorx.BadRequest, "Proof is not open for beliefs")
	}

	_, err = d.beliefRepo.Get(ctx, userID, proof.ID)
	if err == nil {
		if err := d.removeBelief(ctx, userID, proof.ID); err != nil {
			return nil, err
		}

		xcontext.WithCommitDBTransaction(ctx)
		return &model.ToggleBeliefResponse{Believed: false}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get belief: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.addBelief(ctx, userID, proof); err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.ToggleBeliefResponse{Believed: true}, nil
}

func (d *questProofDomain) removeBelief(ctx context.Context, userID, proofID string) error {
	if err := d.beliefRepo.Delete(ctx, userID, proofID); err != nil {
		// A concurrent toggle by the same user may have won the delete.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.AlreadyExists, "You have already withdrawn this belief")
		}

		xcontext.Logger(ctx).Errorf("Cannot delete belief: %v", err)
		return errorx.Unknown
	}

	if err := d.questProofRepo.IncreaseBeliefCount(ctx, proofID, -1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot decrease belief count: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *questProofDomain) addBelief(ctx context.Context, userID string, proof *entity.QuestProof) error {
	err := d.beliefRepo.Create(ctx, &entity.Belief{UserID: userID, ProofID: proof.ID})
	if err != nil {
		// A concurrent toggle by the same user may have won the insert.
		if _, getErr := d.beliefRepo.Get(ctx, userID, proof.ID); getErr == nil {
			return errorx.New(errorx.AlreadyExists, "You have already believed this proof")
		}

		xcontext.Logger(ctx).Errorf("Cannot create belief: %v", err)
		return errorx.Unknown
	}

	if err := d.questProofRepo.IncreaseBeliefCount(ctx, proof.ID, 1); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot increase belief count: %v", err)
		return errorx.Unknown
	}

	return d.checkConsensus(ctx, proof)
}

// checkConsensus approves the proof once its live belief count reaches
// the threshold. The guarded status update makes concurrent threshold
// hits settle on a single winner.
func (d *questProofDomain) checkConsensus(ctx context.Context, proof *entity.QuestProof) error {
	count, err := d.beliefRepo.Count(ctx, proof.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count beliefs: %v", err)
		return errorx.Unknown
	}

	author, err := d.userRepo.GetByID(ctx, proof.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get proof author: %v", err)
		return errorx.Unknown
	}

	quest, err := d.questRepo.GetByID(ctx, proof.QuestID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest of proof: %v", err)
		return errorx.Unknown
	}

	if int(count) < requiredBeliefs(quest.Complexity, author.Level) {
		return nil
	}

	err = d.questProofRepo.UpdateStatus(ctx, proof.ID, entity.ProofPending, entity.ProofApproved)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot approve proof: %v", err)
		return errorx.Unknown
	}

	if _, err := d.completer.Complete(ctx, proof.UserID, quest); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot complete quest: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *questProofDomain) Get(
	ctx context.Context, req *model.GetProofRequest,
) (*model.GetProofResponse, error) {
	proof, err := d.questProofRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found proof")
		}

		xcontext.Logger(ctx).Errorf("Cannot get proof: %v", err)
		return nil, errorx.Unknown
	}

	viewerID := xcontext.RequestUserID(ctx)
	believed := false
	if viewerID != proof.UserID {
		if _, err := d.beliefRepo.Get(ctx, viewerID, proof.ID); err == nil {
			believed = true
		}
	}

	clientProof, err := d.composeProof(ctx, proof, believed)
	if err != nil {
		return nil, err
	}

	resp := model.GetProofResponse(clientProof)
	return &resp, nil
}

// GetFeed pages through other users' pending proofs, newest first. One
// extra row is fetched to decide has_more without a count query.
func (d *questProofDomain) GetFeed(
	ctx context.Context, req *model.GetProofFeedRequest,
) (*model.GetProofFeedResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	offset := mathUtil.Max(req.Offset, 0)
	limit := req.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	limit = mathUtil.Min(limit, maxFeedLimit)

	proofs, err := d.questProofRepo.GetFeed(ctx, userID, offset, limit+1)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get proof feed: %v", err)
		return nil, errorx.Unknown
	}

	hasMore := len(proofs) > limit
	if hasMore {
		proofs = proofs[:limit]
	}

	proofIDs := []string{}
	for _, proof := range proofs {
		proofIDs = append(proofIDs, proof.ID)
	}

	believedSet := map[string]bool{}
	if len(proofIDs) > 0 {
		beliefs, err := d.beliefRepo.GetByProofIDs(ctx, userID, proofIDs)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get viewer beliefs: %v", err)
			return nil, errorx.Unknown
		}

		for _, belief := range beliefs {
			believedSet[belief.ProofID] = true
		}
	}

	clientProofs := []model.QuestProof{}
	for i := range proofs {
		clientProof, err := d.composeProof(ctx, &proofs[i], believedSet[proofs[i].ID])
		if err != nil {
			return nil, err
		}

		clientProofs = append(clientProofs, clientProof)
	}

	return &model.GetProofFeedResponse{
		Proofs:     clientProofs,
		HasMore:    hasMore,
		NextOffset: offset + len(clientProofs),
	}, nil
}

func (d *questProofDomain) GetHistory(
	ctx context.Context, req *model.GetProofHistoryRequest,
) (*model.GetProofHistoryResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	proofs, err := d.questProofRepo.GetByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get proof history: %v", err)
		return nil, errorx.Unknown
	}

	clientProofs := []model.QuestProof{}
	for i := range proofs {
		clientProof, err := d.composeProof(ctx, &proofs[i], false)
		if err != nil {
			return nil, err
		}

		clientProofs = append(clientProofs, clientProof)
	}

	return &model.GetProofHistoryResponse{Proofs: clientProofs}, nil
}

// composeProof joins a proof with its author and quest and resolves the
// stored object keys to presigned download urls.
func (d *questProofDomain) composeProof(
	ctx context.Context, proof *entity.QuestProof, believed bool,
) (model.QuestProof, error) {
	author, err := d.userRepo.GetByID(ctx, proof.UserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get proof author: %v", err)
		return model.QuestProof{}, errorx.Unknown
	}

	quest, err := d.questRepo.GetByID(ctx, proof.QuestID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get quest of proof: %v", err)
		return model.QuestProof{}, errorx.Unknown
	}

	clientProof := model.ConvertQuestProof(proof, author, quest)
	clientProof.IsBelieved = believed

	expiration := xcontext.Configs(ctx).File.DownloadURLExpiration
	for _, key := range proof.PhotoKeys {
		url, err := d.storage.GenerateDownloadURL(ctx, key, expiration)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot generate download url of %s: %v", key, err)
			return model.QuestProof{}, errorx.New(errorx.StorageFailure, "Cannot generate download url")
		}

		clientProof.PhotoURLs = append(clientProof.PhotoURLs, url)
	}

	for _, key := range proof.VoiceKeys {
		url, err := d.storage.GenerateDownloadURL(ctx, key, expiration)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot generate download url of %s: %v", key, err)
			return model.QuestProof{}, errorx.New(errorx.StorageFailure, "Cannot generate download url")
		}

		clientProof.VoiceURLs = append(clientProof.VoiceURLs, url)
	}

	return clientProof, nil
}
