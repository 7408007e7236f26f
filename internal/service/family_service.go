package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"familyhub/internal/credentials"
	"familyhub/internal/metrics"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

var (
	ErrFamilyNotFound     = errors.New("family not found")
	ErrNotFamilyMember    = errors.New("user is not a member of this family")
	ErrNotFamilyOwner     = errors.New("only the family owner can do this")
	ErrAlreadyMember      = errors.New("already a member of this family")
	ErrMemberNotFound     = errors.New("membership not found")
	ErrCannotRemoveOwner  = errors.New("the family owner cannot be removed")
	ErrInvalidJoinCode    = errors.New("join code must be 5 letters or digits")
	ErrNoFamily           = errors.New("user does not belong to any family")
	ErrJoinCodesExhausted = errors.New("could not allocate a unique join code")
)

// maxJoinCodeAttempts bounds join code generation on collision
const maxJoinCodeAttempts = 10

// FamilyStore is the subset of database.DB the family service needs
type FamilyStore interface {
	ContainsBadWord(text string) (bool, error)
	IsUniqueViolation(err error) bool
}

// Inviter sends family invitations
type Inviter interface {
	SendFamilyInvite(ctx context.Context, toEmail, inviterName, familyName, joinCode string) error
}

// FamilyService handles families and memberships
type FamilyService struct {
	familyRepo *repository.FamilyRepository
	userRepo   *repository.UserRepository
	store      FamilyStore
	inviter    Inviter

	generateCode func() (string, error)
	now          func() time.Time
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, userRepo *repository.UserRepository, store FamilyStore, inviter Inviter) *FamilyService {
	return &FamilyService{
		familyRepo:   familyRepo,
		userRepo:     userRepo,
		store:        store,
		inviter:      inviter,
		generateCode: credentials.GenerateJoinCode,
		now:          utcNow,
	}
}

// CreateFamily creates a family under a fresh join code with ownerID as its
// owner and first member.
func (s *FamilyService) CreateFamily(ownerID, name, description string) (*models.Family, error) {
	if err := validation.ValidateFamilyName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(description); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	description = strings.TrimSpace(description)

	for attempt := 0; attempt < maxJoinCodeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate join code: %w", err)
		}

		ok, err := s.codeAvailable(code)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		now := s.now()
		family := &models.Family{
			ID:          code,
			Name:        name,
			Description: optional(description),
			OwnerID:     ownerID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.familyRepo.CreateFamily(family); err != nil {
			// Lost a race for the same code
			if s.store.IsUniqueViolation(err) {
				continue
			}
			return nil, fmt.Errorf("failed to create family: %w", err)
		}

		metrics.FamilyCreated()
		logrus.WithFields(logrus.Fields{"family_id": code, "owner_id": ownerID}).Info("Family created")
		return family, nil
	}

	return nil, ErrJoinCodesExhausted
}

func (s *FamilyService) codeAvailable(code string) (bool, error) {
	bad, err := s.store.ContainsBadWord(code)
	if err != nil {
		return false, fmt.Errorf("failed to screen join code: %w", err)
	}
	if bad {
		return false, nil
	}

	exists, err := s.familyRepo.FamilyExists(code)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// JoinFamily adds userID to the family identified by code
func (s *FamilyService) JoinFamily(userID, code string) (*models.Family, error) {
	code = credentials.NormalizeJoinCode(code)
	if !credentials.IsValidJoinCode(code) {
		return nil, ErrInvalidJoinCode
	}

	family, err := s.GetFamily(code)
	if err != nil {
		return nil, err
	}

	isMember, err := s.familyRepo.IsFamilyMember(userID, code)
	if err != nil {
		return nil, err
	}
	if isMember {
		return nil, ErrAlreadyMember
	}

	if err := s.familyRepo.AddFamilyMember(code, userID, s.now()); err != nil {
		if s.store.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	metrics.FamilyJoined()
	logrus.WithFields(logrus.Fields{"family_id": code, "user_id": userID}).Info("Family joined")
	return family, nil
}

// LeaveFamily removes userID's own membership
func (s *FamilyService) LeaveFamily(userID, familyID string) error {
	removed, err := s.familyRepo.RemoveFamilyMember(familyID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	metrics.FamilyLeft()
	return nil
}

// UpdateFamily changes name and description. Owner only.
func (s *FamilyService) UpdateFamily(userID, familyID, name, description string) (*models.Family, error) {
	if err := validation.ValidateFamilyName(name); err != nil {
		return nil, err
	}
	if err := validation.ValidateDescription(description); err != nil {
		return nil, err
	}

	family, err := s.requireOwner(userID, familyID)
	if err != nil {
		return nil, err
	}

	family.Name = strings.TrimSpace(name)
	family.Description = optional(strings.TrimSpace(description))
	family.UpdatedAt = s.now()
	if err := s.familyRepo.UpdateFamily(familyID, family.Name, family.Description, family.UpdatedAt); err != nil {
		return nil, err
	}
	return family, nil
}

// RemoveMember removes memberID from the family. Owner only, and the owner
// cannot remove themselves.
func (s *FamilyService) RemoveMember(userID, familyID, memberID string) error {
	family, err := s.requireOwner(userID, familyID)
	if err != nil {
		return err
	}
	if memberID == family.OwnerID {
		return ErrCannotRemoveOwner
	}

	removed, err := s.familyRepo.RemoveFamilyMember(familyID, memberID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}
	return nil
}

func (s *FamilyService) requireOwner(userID, familyID string) (*models.Family, error) {
	family, err := s.GetFamily(familyID)
	if err != nil {
		return nil, err
	}
	if !family.IsOwner(userID) {
		return nil, ErrNotFamilyOwner
	}
	return family, nil
}

// GetFamily retrieves a family by join code
func (s *FamilyService) GetFamily(familyID string) (*models.Family, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

// GetFamilyWithMembers returns the family and its members. Members only.
func (s *FamilyService) GetFamilyWithMembers(userID, familyID string) (*models.FamilyWithMembers, error) {
	family, err := s.GetFamily(familyID)
	if err != nil {
		return nil, err
	}
	if err := s.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}

	members, err := s.familyRepo.GetFamilyMembers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}
	return &models.FamilyWithMembers{
		Family:  *family,
		Members: members,
		IsOwner: family.IsOwner(userID),
	}, nil
}

// GetUserFamilies retrieves all families a user belongs to
func (s *FamilyService) GetUserFamilies(userID string) ([]models.Family, error) {
	families, err := s.familyRepo.GetUserFamilies(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user families: %w", err)
	}
	return families, nil
}

// VerifyFamilyAccess checks if a user is a member of a family
func (s *FamilyService) VerifyFamilyAccess(userID, familyID string) error {
	isMember, err := s.familyRepo.IsFamilyMember(userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to verify family access: %w", err)
	}
	if !isMember {
		return ErrNotFamilyMember
	}
	return nil
}

// ResolveFamily picks the family a request acts on: familyID when given and
// the user belongs to it, otherwise the user's earliest membership.
func (s *FamilyService) ResolveFamily(userID, familyID string) (string, error) {
	if familyID != "" {
		if err := s.VerifyFamilyAccess(userID, familyID); err != nil {
			return "", err
		}
		return familyID, nil
	}

	families, err := s.GetUserFamilies(userID)
	if err != nil {
		return "", err
	}
	if len(families) == 0 {
		return "", ErrNoFamily
	}
	return families[0].ID, nil
}

// InviteByEmail emails the family's join code. Members only.
func (s *FamilyService) InviteByEmail(ctx context.Context, userID, familyID, email string) error {
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	family, err := s.GetFamily(familyID)
	if err != nil {
		return err
	}
	if err := s.VerifyFamilyAccess(userID, familyID); err != nil {
		return err
	}

	inviterName := "A family member"
	if user, err := s.userRepo.GetUserByID(userID); err == nil && user != nil {
		inviterName = user.DisplayName()
	}

	if err := s.inviter.SendFamilyInvite(ctx, strings.TrimSpace(email), inviterName, family.Name, family.ID); err != nil {
		return fmt.Errorf("failed to send invite: %w", err)
	}
	return nil
}
