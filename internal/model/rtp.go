package model

// RTPState Статистика возврата игроку по режиму
type RTPState struct {
	Mode        SpinMode
	TotalSpins  int64   // Сколько всего спинов сделано
	TotalBet    float64 // Сумма всех ставок
	TotalPayout float64 // Сумма всех выплат
	CurrentRTP  float64 // TotalPayout/TotalBet*100
	TargetRTP   float64 // Теоретический RTP режима
	WindowRTP   float64 // RTP в окне последних спинов
	WindowSize  int
	Drifting    bool // RTP окна сильно отклонился от целевого
}
