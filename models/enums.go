package models

type Region string

const (
	RegionNA    Region = "NA"
	RegionID    Region = "ID"
	RegionMY    Region = "MY"
	RegionPH    Region = "PH"
	RegionSG    Region = "SG"
	RegionBR    Region = "BR"
	RegionVN    Region = "VN"
	RegionMM    Region = "MM"
	RegionTH    Region = "TH"
	RegionIN    Region = "IN"
	RegionTR    Region = "TR"
	RegionEU    Region = "EU"
	RegionJP    Region = "JP"
	RegionCN    Region = "CN"
	RegionMENA  Region = "MENA"
	RegionKR    Region = "KR"
	RegionTW    Region = "TW"
	RegionHK    Region = "HK"
	RegionLATAM Region = "LATAM"
	RegionINTL  Region = "INTL"
)

func (r Region) Valid() bool {
	switch r {
	case RegionNA, RegionID, RegionMY, RegionPH, RegionSG, RegionBR, RegionVN, RegionMM,
		RegionTH, RegionIN, RegionTR, RegionEU, RegionJP, RegionCN, RegionMENA, RegionKR,
		RegionTW, RegionHK, RegionLATAM, RegionINTL:
		return true
	}
	return false
}

// TournamentTier: SS (world) down to D.
type TournamentTier string

const (
	TierSS TournamentTier = "SS"
	TierS  TournamentTier = "S"
	TierA  TournamentTier = "A"
	TierB  TournamentTier = "B"
	TierC  TournamentTier = "C"
	TierD  TournamentTier = "D"
)

func (t TournamentTier) Valid() bool {
	switch t {
	case TierSS, TierS, TierA, TierB, TierC, TierD:
		return true
	}
	return false
}

type StageType string

const (
	StageWildCard      StageType = "WILD CARD"
	StageRegularSeason StageType = "REGULAR SEASON"
	StageKnockout      StageType = "KNOCKOUT"
	StageGroup         StageType = "GROUP"
	StagePlayoffs      StageType = "PLAYOFFS"
	StageFinals        StageType = "FINALS"
)

func (s StageType) Valid() bool {
	switch s {
	case StageWildCard, StageRegularSeason, StageKnockout, StageGroup, StagePlayoffs, StageFinals:
		return true
	}
	return false
}

// StageTier is the ranking weight of a stage, T1 being the highest.
type StageTier string

const (
	StageTierT1 StageTier = "T1"
	StageTierT2 StageTier = "T2"
	StageTierT3 StageTier = "T3"
	StageTierT4 StageTier = "T4"
	StageTierT5 StageTier = "T5"
	StageTierT6 StageTier = "T6"
)

func (t StageTier) Valid() bool {
	switch t {
	case StageTierT1, StageTierT2, StageTierT3, StageTierT4, StageTierT5, StageTierT6:
		return true
	}
	return false
}

type TournamentTeamKind string

const (
	TeamKindInvited   TournamentTeamKind = "INVITED"
	TeamKindQualified TournamentTeamKind = "QUALIFIED"
	TeamKindWildcard  TournamentTeamKind = "WILDCARD"
	TeamKindFranchise TournamentTeamKind = "FRANCHISE"
)

func (k TournamentTeamKind) Valid() bool {
	switch k {
	case TeamKindInvited, TeamKindQualified, TeamKindWildcard, TeamKindFranchise:
		return true
	}
	return false
}

// GameResultType decides whether the winner of a game is forced or derived.
// DRAW also covers no-contest games.
type GameResultType string

const (
	ResultNormal       GameResultType = "NORMAL"
	ResultForfeitTeam1 GameResultType = "FORFEIT_TEAM1"
	ResultForfeitTeam2 GameResultType = "FORFEIT_TEAM2"
	ResultDraw         GameResultType = "DRAW"
)

func (r GameResultType) Valid() bool {
	switch r {
	case ResultNormal, ResultForfeitTeam1, ResultForfeitTeam2, ResultDraw:
		return true
	}
	return false
}

type Side string

const (
	SideBlue Side = "BLUE"
	SideRed  Side = "RED"
)

func (s Side) Valid() bool {
	return s == SideBlue || s == SideRed
}

// GameResult is a team's own claim about a game. Empty means not entered yet.
type GameResult string

const (
	GameResultNone    GameResult = ""
	GameResultVictory GameResult = "VICTORY"
	GameResultDefeat  GameResult = "DEFEAT"
)

func (r GameResult) Valid() bool {
	return r == GameResultNone || r == GameResultVictory || r == GameResultDefeat
}

type DraftActionType string

const (
	DraftBan  DraftActionType = "BAN"
	DraftPick DraftActionType = "PICK"
)

func (a DraftActionType) Valid() bool {
	return a == DraftBan || a == DraftPick
}

type PlayerRole string

const (
	RoleGold   PlayerRole = "GOLD"
	RoleMid    PlayerRole = "MID"
	RoleJungle PlayerRole = "JUNGLE"
	RoleExp    PlayerRole = "EXP"
	RoleRoam   PlayerRole = "ROAM"
)

func (r PlayerRole) Valid() bool {
	switch r {
	case RoleGold, RoleMid, RoleJungle, RoleExp, RoleRoam:
		return true
	}
	return false
}

type StaffRole string

const (
	StaffHeadCoach StaffRole = "HEAD_COACH"
	StaffAsstCoach StaffRole = "ASST_COACH"
	StaffAnalyst   StaffRole = "ANALYST"
	StaffManager   StaffRole = "MANAGER"
)

func (r StaffRole) Valid() bool {
	switch r {
	case StaffHeadCoach, StaffAsstCoach, StaffAnalyst, StaffManager:
		return true
	}
	return false
}

type HeroClass string

const (
	ClassTank     HeroClass = "TANK"
	ClassFighter  HeroClass = "FIGHTER"
	ClassAssassin HeroClass = "ASSASSIN"
	ClassMage     HeroClass = "MAGE"
	ClassMarksman HeroClass = "MARKSMAN"
	ClassSupport  HeroClass = "SUPPORT"
)

// ValidBestOf reports whether n is an allowed series length (Bo1, Bo3, Bo5, Bo7).
func ValidBestOf(n int) bool {
	switch n {
	case 1, 3, 5, 7:
		return true
	}
	return false
}

const DefaultBestOf = 3
