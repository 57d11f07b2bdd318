package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-marketplace-backend/internal/domain"
)

func TestAssignmentRegistry_Attach(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		f := newFixture(t)
		require.NoError(t, f.registry.Attach(f.ctx, "p1", "g1"))
		require.NoError(t, f.registry.Attach(f.ctx, "p1", "g1"))

		assert.Equal(t, []string{"g1"}, f.pkg(t, "p1").Guides)
		g := f.guide(t, "g1")
		require.Len(t, g.AssignedPackages, 1)
		assert.Equal(t, domain.AssignedPackage{
			PackageID:   "p1",
			PackageName: "Alps Trek",
			Price:       dec("1000"),
			Status:      domain.AssignmentStatusActive,
		}, g.AssignedPackages[0])
	})

	t.Run("Heals a one-sided link", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.store.AssignmentRepository.AddPackageGuide(f.ctx, "p1", "g1")
		require.NoError(t, err)
		require.False(t, f.guide(t, "g1").HasPackage("p1"))

		require.NoError(t, f.registry.Attach(f.ctx, "p1", "g1"))
		assert.Equal(t, []string{"g1"}, f.pkg(t, "p1").Guides)
		assert.True(t, f.guide(t, "g1").HasPackage("p1"))
	})

	t.Run("Unknown guide", func(t *testing.T) {
		f := newFixture(t)
		err := f.registry.Attach(f.ctx, "p1", "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Empty(t, f.pkg(t, "p1").Guides)
	})
}

func TestAssignmentRegistry_Detach(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.registry.Attach(f.ctx, "p1", "g1"))

	require.NoError(t, f.registry.Detach(f.ctx, "p1", "g1"))
	require.NoError(t, f.registry.Detach(f.ctx, "p1", "g1"))

	assert.Empty(t, f.pkg(t, "p1").Guides)
	assert.Empty(t, f.guide(t, "g1").AssignedPackages)
}

func TestAssignmentRegistry_AssignGuides(t *testing.T) {
	f := newFixture(t)

	t.Run("Owning agency", func(t *testing.T) {
		pkg, err := f.registry.AssignGuides(f.ctx, agencyPeak, "p1", []string{"g1", "g2", "g1"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"g1", "g2"}, pkg.Guides)
		assert.True(t, f.guide(t, "g2").HasPackage("p1"))
	})

	t.Run("Other agency", func(t *testing.T) {
		_, err := f.registry.AssignGuides(f.ctx, agencyOther, "p1", []string{"g1"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Empty list", func(t *testing.T) {
		_, err := f.registry.AssignGuides(f.ctx, admin, "p1", nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Unassign", func(t *testing.T) {
		require.NoError(t, f.registry.UnassignGuide(f.ctx, agencyPeak, "p1", "g2"))
		assert.Equal(t, []string{"g1"}, f.pkg(t, "p1").Guides)
		assert.False(t, f.guide(t, "g2").HasPackage("p1"))
	})
}
