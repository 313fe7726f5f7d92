package domain

// Color is the pocket color of a roulette number.
type Color string

const (
	ColorRed   Color = "red"
	ColorBlack Color = "black"
	ColorGreen Color = "green"
)

// GameOutcome is the immutable result of one roulette spin. All fields other
// than Number are pure functions of it and are derived by roulette.Classify;
// they are never stored independently of the number.
type GameOutcome struct {
	Number int   `json:"number"`
	Color  Color `json:"color"`
	IsEven bool  `json:"is_even"`
	IsLow  bool  `json:"is_low"`
	Dozen  int   `json:"dozen"`  // 1..3, 0 for the zero pocket
	Column int   `json:"column"` // 1..3, 0 for the zero pocket
}
