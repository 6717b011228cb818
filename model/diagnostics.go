package model

import "fmt"

// Diagnostics is the per-tick line written for whoever is watching the
// sensor. Rotation is in degrees per second.
type Diagnostics struct {
	MelodyDuration int
	MelodyOctave   int
	MelodyPitch    int

	AccX, AccY, AccZ float64
	RotX, RotY, RotZ float64
	Temp             float64
}

func (d Diagnostics) String() string {
	return fmt.Sprintf("AccX:%.2f,AccY:%.2f,AccZ:%.2f,RotX:%.2f,RotY:%.2f,RotZ:%.2f,Temp:%.2f",
		d.AccX, d.AccY, d.AccZ, d.RotX, d.RotY, d.RotZ, d.Temp)
}
