package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/tdobson/snowy-sub000/internal/domain"
	"gorm.io/gorm"
)

func SeedInstance(tb testing.TB, ctx context.Context, tx *gorm.DB, nameKey string) *types.Instance {
	tb.Helper()
	inst := &types.Instance{
		InstanceID:      uuid.New(),
		InstanceNameKey: nameKey,
		InstanceName:    nameKey,
	}
	if err := tx.WithContext(ctx).Create(inst).Error; err != nil {
		tb.Fatalf("seed instance: %v", err)
	}
	return inst
}

func SeedImportEvent(tb testing.TB, ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, ref string) *types.ImportEvent {
	tb.Helper()
	ev := &types.ImportEvent{
		ImportID:     uuid.New(),
		InstanceID:   instanceID,
		ImportDate:   time.Now().UTC(),
		ImportRef:    ref,
		ImportSource: "test",
	}
	if err := tx.WithContext(ctx).Create(ev).Error; err != nil {
		tb.Fatalf("seed import event: %v", err)
	}
	return ev
}

func SeedRegion(tb testing.TB, ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, number int, name string) *types.Region {
	tb.Helper()
	r := &types.Region{
		RegionID:     uuid.New(),
		InstanceID:   instanceID,
		RegionNumber: number,
		RegionName:   name,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed region: %v", err)
	}
	return r
}

func SeedStatus(tb testing.TB, ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, state, group string) *types.Status {
	tb.Helper()
	s := &types.Status{
		StatusID:    uuid.New(),
		InstanceID:  instanceID,
		StatusState: state,
		StatusGroup: group,
		StatusName:  state,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed status: %v", err)
	}
	return s
}

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, email string) *types.User {
	tb.Helper()
	u := &types.User{
		UserID:     uuid.New(),
		InstanceID: instanceID,
		Email:      email,
		Name:       "Test Installer",
		Password:   "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProject(tb testing.TB, ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, pvNumber string) *types.Project {
	tb.Helper()
	p := &types.Project{
		ProjectID:   uuid.New(),
		InstanceID:  instanceID,
		PvNumber:    pvNumber,
		ProjectName: "PV " + pvNumber,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed project: %v", err)
	}
	return p
}

func SeedPlot(tb testing.TB, ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, plotNumber, trackerRef string) *types.Plot {
	tb.Helper()
	p := &types.Plot{
		PlotID:     uuid.New(),
		InstanceID: instanceID,
		PlotNumber: plotNumber,
		TrackerRef: trackerRef,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed plot: %v", err)
	}
	return p
}

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, instanceID uuid.UUID, name, productType string) *types.Product {
	tb.Helper()
	p := &types.Product{
		ProductID:   uuid.New(),
		InstanceID:  instanceID,
		ProductName: name,
		ProductType: productType,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}
