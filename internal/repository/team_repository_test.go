package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/roster-api/internal/models"
	"github.com/yukikurage/roster-api/internal/testutil"
)

func TestTeamRepository_CreateWithPositionsBackfillsTeam(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewTeamRepository(db)

	team := &models.Team{Name: "Worship", OrganizationID: f.org.ID, CreatedByID: f.user.ID}
	positions := []models.Position{
		{Name: "Vocals", OrganizationID: f.org.ID, CreatedByID: f.user.ID},
		{Name: "Drums", OrganizationID: f.org.ID, CreatedByID: f.user.ID},
	}
	require.NoError(t, repo.CreateWithPositions(team, positions))
	require.NotZero(t, team.ID)

	loaded, err := repo.FindByID(team.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Positions, 2)
	assert.Equal(t, "Drums", loaded.Positions[0].Name)
	assert.Equal(t, "Vocals", loaded.Positions[1].Name)
	for _, p := range loaded.Positions {
		require.NotNil(t, p.TeamID)
		assert.Equal(t, team.ID, *p.TeamID)
	}
}

func TestTeamRepository_AddMemberTwiceKeepsOneRow(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewTeamRepository(db)
	team := f.team(t, "Ushers")
	person := f.person(t, "Luis", "Mora")

	inserted, err := repo.AddMember(&models.TeamMember{
		TeamID: team.ID, PersonID: person.ID,
		Role: models.MemberRoleLeader, Status: models.MemberStatusActive,
	})
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = repo.AddMember(&models.TeamMember{
		TeamID: team.ID, PersonID: person.ID,
		Role: models.MemberRoleMember, Status: models.MemberStatusActive,
	})
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.Equal(t, int64(1), count(t, db, &models.TeamMember{}, "team_id = ? AND person_id = ?", team.ID, person.ID))

	member, err := repo.FindMember(team.ID, person.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberRoleLeader, member.Role)
	assert.Equal(t, "Luis", member.Person.FirstName)
}

func TestTeamRepository_RemoveMemberIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewTeamRepository(db)
	team := f.team(t, "Ushers")
	person := f.person(t, "Luis", "Mora")

	_, err := repo.AddMember(&models.TeamMember{
		TeamID: team.ID, PersonID: person.ID,
		Role: models.MemberRoleMember, Status: models.MemberStatusActive,
	})
	require.NoError(t, err)

	require.NoError(t, repo.RemoveMember(team.ID, person.ID))
	require.NoError(t, repo.RemoveMember(team.ID, person.ID))

	loaded, err := repo.FindByID(team.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Members)
}

func TestTeamRepository_UpdateReplacesPositionSet(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewTeamRepository(db)
	team := f.team(t, "Media")
	keep := f.position(t, "Camera", &team.ID)
	drop := f.position(t, "Lights", &team.ID)
	add := f.position(t, "Sound", nil)

	team.Name = "Media Team"
	require.NoError(t, repo.Update(&team, []uint64{keep.ID, add.ID}, true))

	loaded, err := repo.FindByID(team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Media Team", loaded.Name)
	require.Len(t, loaded.Positions, 2)
	assert.Equal(t, keep.ID, loaded.Positions[0].ID)
	assert.Equal(t, add.ID, loaded.Positions[1].ID)

	var detached models.Position
	require.NoError(t, db.First(&detached, drop.ID).Error)
	assert.Nil(t, detached.TeamID)
}

func TestTeamRepository_DeleteCascades(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewTeamRepository(db)
	team := f.team(t, "Kids")
	position := f.position(t, "Teacher", &team.ID)
	person := f.person(t, "Eva", "Ruiz")

	_, err := repo.AddMember(&models.TeamMember{
		TeamID: team.ID, PersonID: person.ID,
		Role: models.MemberRoleMember, Status: models.MemberStatusActive,
	})
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.PersonPosition{PersonID: person.ID, PositionID: position.ID}).Error)

	require.NoError(t, repo.Delete(team.ID))

	assert.Equal(t, int64(0), count(t, db, &models.Team{}, "id = ?", team.ID))
	assert.Equal(t, int64(0), count(t, db, &models.Position{}, "id = ?", position.ID))
	assert.Equal(t, int64(0), count(t, db, &models.TeamMember{}, "team_id = ?", team.ID))
	assert.Equal(t, int64(0), count(t, db, &models.PersonPosition{}, "position_id = ?", position.ID))
	assert.Equal(t, int64(1), count(t, db, &models.Person{}, "id = ?", person.ID))
}

func TestTeamRepository_ListIsScopedAndSorted(t *testing.T) {
	db := testutil.NewDB(t)
	f := newFixture(t, db)
	repo := NewTeamRepository(db)
	f.team(t, "Worship")
	f.team(t, "Audio")

	other := models.Organization{Name: "Other"}
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.Team{Name: "Foreign", OrganizationID: other.ID, CreatedByID: f.user.ID}).Error)

	teams, total, err := repo.List(f.org.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, teams, 2)
	assert.Equal(t, "Audio", teams[0].Name)
	assert.Equal(t, "Worship", teams[1].Name)
}
