package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Lubricantes-api/internal/application/usecase"
	"github.com/jhoicas/Lubricantes-api/internal/domain/entity"
	"github.com/jhoicas/Lubricantes-api/internal/domain/repository"
	"github.com/jhoicas/Lubricantes-api/internal/testutil"
)

func TestAuditList_FiltraYOrdenaRecientesPrimero(t *testing.T) {
	store := testutil.NewInMemoryPricingStore()
	audit := store.Repos().Audit
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, e := range []entity.AuditLog{
		{ID: "a-1", Action: entity.AuditActionApplyScheduledPrice, TargetType: entity.AuditTargetCompanyProduct, TargetID: "cp-1"},
		{ID: "a-2", Action: entity.AuditActionCreateSchedule, TargetType: entity.AuditTargetPriceSchedule, TargetID: "s-1"},
		{ID: "a-3", Action: entity.AuditActionApplyScheduledPrice, TargetType: entity.AuditTargetCompanyProduct, TargetID: "cp-2"},
	} {
		e.ActorID = testActorID
		e.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, audit.Create(ctx, &e))
	}

	uc := usecase.NewAuditUseCase(audit)
	out, err := uc.List(ctx, repository.AuditLogFilter{Action: entity.AuditActionApplyScheduledPrice, Limit: 20})
	require.NoError(t, err)
	require.Len(t, out.Items, 2)
	assert.Equal(t, "a-3", out.Items[0].ID)
	assert.Equal(t, "a-1", out.Items[1].ID)

	out, err = uc.List(ctx, repository.AuditLogFilter{TargetType: entity.AuditTargetCompanyProduct, TargetID: "cp-1", Limit: 20})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "a-1", out.Items[0].ID)
}
