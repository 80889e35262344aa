// simvar/names.go
// Copyright(c) 2022-2025 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package simvar

import "strconv"

// Variables read and written by the ground engines. L: variables are
// aircraft-local; K: variables are key events.
const (
	BoardingStartedByUser = "L:A32NX_BOARDING_STARTED_BY_USR"
	PerPaxWeight          = "L:A32NX_WB_PER_PAX_WEIGHT"
	PerBagWeight          = "L:A32NX_WB_PER_BAG_WEIGHT"
	UnitConversionFactor  = "L:A32NX_EFB_UNIT_CONVERSION_FACTOR"

	SoundPaxBoarding      = "L:A32NX_SOUND_PAX_BOARDING"
	SoundPaxDeboarding    = "L:A32NX_SOUND_PAX_DEBOARDING"
	SoundBoardingComplete = "L:A32NX_SOUND_BOARDING_COMPLETE"
	SoundPaxAmbience      = "L:A32NX_SOUND_PAX_AMBIENCE"

	BusDC2Powered    = "L:A32NX_ELEC_DC_2_BUS_IS_POWERED"
	BusDCHot1Powered = "L:A32NX_ELEC_DC_HOT_1_BUS_IS_POWERED"
	GPSGroundSpeed   = "GPS GROUND SPEED"
	SimOnGround      = "SIM ON GROUND"
	Eng1Combustion   = "ENG COMBUSTION:1"
	Eng2Combustion   = "ENG COMBUSTION:2"

	PushbackState     = "PUSHBACK STATE"
	PushbackWait      = "Pushback Wait"
	PushbackAttached  = "Pushback Attached"
	PlaneHeadingTrue  = "PLANE HEADING DEGREES TRUE"
	PlaneLatitude     = "A:PLANE LATITUDE"
	PlaneLongitude    = "A:PLANE LONGITUDE"
	ParkBrakeLeverPos = "L:A32NX_PARK_BRAKE_LEVER_POS"
	RudderPosition    = "A:RUDDER POSITION"
	ElevatorPosition  = "A:ELEVATOR POSITION"
	KeyTugHeading     = "K:KEY_TUG_HEADING"
	KeyTugSpeed       = "K:KEY_TUG_SPEED"
	KeyTogglePushback = "K:TOGGLE_PUSHBACK"
	RotationVelocityX = "ROTATION VELOCITY BODY X"
	RotationVelocityY = "ROTATION VELOCITY BODY Y"
	RotationVelocityZ = "ROTATION VELOCITY BODY Z"
	VelocityBodyX     = "VELOCITY BODY X"
	VelocityBodyY     = "VELOCITY BODY Y"
	VelocityBodyZ     = "VELOCITY BODY Z"
)

// PayloadStationWeight returns the name of the payload weight variable
// for the given station index.
func PayloadStationWeight(index int) string {
	return "PAYLOAD STATION WEIGHT:" + strconv.Itoa(index)
}

// Desired returns the name of the target-value variable that pairs with
// the given active-value variable.
func Desired(name string) string {
	return name + "_DESIRED"
}
