package in

import (
	"context"

	"cradle/internal/modules/records/dto"
	recordsin "cradle/internal/modules/records/port/in"
)

type CLIHandler struct {
	usecase recordsin.Usecase
}

func NewCLIHandler(usecase recordsin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) KickStart(ctx context.Context) (dto.KickSessionOutput, error) {
	return h.usecase.StartKickSession(ctx)
}

func (h CLIHandler) KickTap(ctx context.Context) (dto.KickSession, error) {
	return h.usecase.RecordKick(ctx)
}

func (h CLIHandler) KickUndo(ctx context.Context) (dto.KickSession, error) {
	return h.usecase.UndoLastKick(ctx)
}

func (h CLIHandler) KickEnd(ctx context.Context) (dto.KickSession, error) {
	return h.usecase.EndKickSession(ctx)
}

func (h CLIHandler) KickToday(ctx context.Context) (dto.TodayKicksOutput, error) {
	return h.usecase.TodayKicks(ctx)
}

func (h CLIHandler) KickHistory(ctx context.Context, limit int) ([]dto.KickSession, error) {
	return h.usecase.KickHistory(ctx, dto.HistoryInput{Limit: limit})
}

func (h CLIHandler) ContractionStart(ctx context.Context) (dto.ContractionSessionOutput, error) {
	return h.usecase.StartContractionSession(ctx)
}

func (h CLIHandler) ContractionBegin(ctx context.Context) (dto.Contraction, error) {
	return h.usecase.StartContraction(ctx)
}

func (h CLIHandler) ContractionStop(ctx context.Context) (dto.StopContractionOutput, error) {
	return h.usecase.StopContraction(ctx)
}

func (h CLIHandler) ContractionEnd(ctx context.Context) (dto.ContractionSession, error) {
	return h.usecase.EndContractionSession(ctx)
}

func (h CLIHandler) ContractionHistory(ctx context.Context, limit int) ([]dto.ContractionSession, error) {
	return h.usecase.ContractionHistory(ctx, dto.HistoryInput{Limit: limit})
}

func (h CLIHandler) ContractionShow(ctx context.Context, sessionID string) (dto.ContractionSessionDetail, error) {
	return h.usecase.ContractionSession(ctx, sessionID)
}

func (h CLIHandler) FeedStart(ctx context.Context, kind string, notes *string) (dto.FeedingRecord, error) {
	return h.usecase.StartFeeding(ctx, dto.StartFeedingInput{Type: kind, Notes: notes})
}

func (h CLIHandler) FeedBottle(ctx context.Context, volumeMl *int, notes *string) (dto.FeedingRecord, error) {
	return h.usecase.StartFeeding(ctx, dto.StartFeedingInput{Type: "bottle", VolumeMl: volumeMl, Notes: notes})
}

func (h CLIHandler) FeedEnd(ctx context.Context) (dto.FeedingRecord, error) {
	return h.usecase.EndFeeding(ctx)
}

func (h CLIHandler) FeedUpdate(ctx context.Context, id string, volumeMl *int, notes *string) (dto.FeedingOutput, error) {
	return h.usecase.UpdateFeeding(ctx, dto.UpdateFeedingInput{ID: id, VolumeMl: volumeMl, Notes: notes})
}

func (h CLIHandler) FeedLast(ctx context.Context) (dto.LastFeedingOutput, error) {
	return h.usecase.LastFeeding(ctx)
}

func (h CLIHandler) FeedHistory(ctx context.Context, limit int) ([]dto.FeedingRecord, error) {
	return h.usecase.FeedingHistory(ctx, dto.HistoryInput{Limit: limit})
}

func (h CLIHandler) BagList(ctx context.Context) ([]dto.HospitalBagItem, error) {
	return h.usecase.ListBag(ctx)
}

func (h CLIHandler) BagToggle(ctx context.Context, id string) (dto.BagItemOutput, error) {
	return h.usecase.ToggleBagItem(ctx, id)
}

func (h CLIHandler) BagAdd(ctx context.Context, category, name string) (dto.HospitalBagItem, error) {
	return h.usecase.AddBagItem(ctx, dto.AddBagItemInput{Category: category, Name: name})
}

func (h CLIHandler) BagRemove(ctx context.Context, id string) (bool, error) {
	return h.usecase.DeleteBagItem(ctx, id)
}

func (h CLIHandler) Today(ctx context.Context) (dto.TodaySummaryOutput, error) {
	return h.usecase.TodaySummary(ctx)
}

func (h CLIHandler) Clear(ctx context.Context) error {
	return h.usecase.ClearAll(ctx)
}
