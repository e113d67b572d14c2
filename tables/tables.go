package tables

// These tables are in their own file because they are large.
//
// Field order and maxima are shared with the map itself.  Changing either
// one silently scrambles every value after it, so treat this file as frozen.

import "bankedit/types"

// Account is the aggregate statistics record, stored under account/info.
var Account = types.New_schema("account",
	types.Field{Name: "normal_games", Max: 190000, Checksum: true},
	types.Field{Name: "normal_wins", Max: 100000, Checksum: true},
	types.Field{Name: "hard_games", Max: 110000, Checksum: true},
	types.Field{Name: "hard_wins", Max: 120000, Checksum: true},
	types.Field{Name: "total_saves", Max: 90300000, Checksum: true},
	types.Field{Name: "total_score", Max: 94000000, Checksum: true},
	types.Field{Name: "total_deaths", Max: 96000000, Checksum: true},
	types.Field{Name: "bot_2000_kills", Max: 150000, Checksum: true},
	types.Field{Name: "odin_kills", Max: 160000, Checksum: true},
	types.Field{Name: "diablo_kills", Max: 170000, Checksum: true},
	types.Field{Name: "insane_games", Max: 180000},
	types.Field{Name: "insane_wins", Max: 190000},
	types.Field{Name: "blank_3_placeholder", Max: 200000},
	types.Field{Name: "time_games", Max: 210000, Checksum: true},
	types.Field{Name: "time_wins", Max: 220000, Checksum: true},
	types.Field{Name: "minigame_high_score", Max: 230000, Checksum: true},
	types.Field{Name: "time_high_score", Max: 240000, Checksum: true},

	// Preferences. Not checksummed.
	types.Field{Name: "camera_distance", Max: 1000},
	types.Field{Name: "camera_rotation", Max: 1001},
	types.Field{Name: "camera_angle", Max: 1002},
	types.Field{Name: "camera_follow", Max: 1003},
	types.Field{Name: "hide_tips", Max: 1004},
	types.Field{Name: "hide_hud", Max: 1005},
	types.Field{Name: "hide_minimap", Max: 1006},
	types.Field{Name: "hide_energy_bar", Max: 1007},
	types.Field{Name: "hide_experience_bar", Max: 1008},
	types.Field{Name: "hide_menu", Max: 1009},
	types.Field{Name: "wasd_movement", Max: 1010},

	// Unlockable camera skills
	types.Field{Name: "increase_distance_skill", Max: 10},
	types.Field{Name: "decrease_distance_skill", Max: 11},
	types.Field{Name: "rotate_right_skill", Max: 12},
	types.Field{Name: "rotate_left_skill", Max: 13},
	types.Field{Name: "follow_runling_skill", Max: 14},
)

// Unit is one saved runling, stored under unit/01 to unit/08.
var Unit = types.New_schema("unit",
	types.Field{Name: "class", Max: 300000},
	types.Field{Name: "experience", Max: 8100000, Checksum: true},
	types.Field{Name: "energy_regeneration", Max: 320000, Checksum: true},
	types.Field{Name: "maximum_energy", Max: 330000, Checksum: true},
	types.Field{Name: "speed", Max: 340000, Checksum: true},
	types.Field{Name: "skill_1_level", Max: 350000, Checksum: true},
	types.Field{Name: "skill_2_level", Max: 360000, Checksum: true},
	types.Field{Name: "runling_level", Max: 370000},
	types.Field{Name: "remaining_points", Max: 380000, Checksum: true},
)

// Slots is the occupancy flag of each unit slot, stored under unit/info.
// The maxima are 425 to 432; only 0 and 1 are ever written.
var Slots = types.New_schema("slots",
	types.Field{Name: "slot_1", Max: SLOT_MAX_BASE + 0},
	types.Field{Name: "slot_2", Max: SLOT_MAX_BASE + 1},
	types.Field{Name: "slot_3", Max: SLOT_MAX_BASE + 2},
	types.Field{Name: "slot_4", Max: SLOT_MAX_BASE + 3},
	types.Field{Name: "slot_5", Max: SLOT_MAX_BASE + 4},
	types.Field{Name: "slot_6", Max: SLOT_MAX_BASE + 5},
	types.Field{Name: "slot_7", Max: SLOT_MAX_BASE + 6},
	types.Field{Name: "slot_8", Max: SLOT_MAX_BASE + 7},
)

// Camera is the checksum pair stored under account/camera.
// Despite the key name it holds the account and unit checksums.
var Camera = types.New_schema("camera",
	types.Field{Name: "account", Max: CAMERA_ACCOUNT_MAX},
	types.Field{Name: "units", Max: CAMERA_UNITS_MAX},
)

const (
	SLOT_MAX_BASE      = 425
	CAMERA_ACCOUNT_MAX = 99000000
	CAMERA_UNITS_MAX   = 98000000
)
