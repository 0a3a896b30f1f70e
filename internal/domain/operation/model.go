package operation

import "time"

// Operation — рабочая сессия: техника + вид работ + (опционально) материал,
// с временем начала и опциональным временем окончания. Поля сериализуются
// в том виде, в каком их ожидает мобильный клиент.
type Operation struct {
	ID               string     `json:"_id"`
	Equipment        string     `json:"equipment"`
	Activity         string     `json:"activity"`
	Material         string     `json:"material,omitempty"`
	Operator         string     `json:"operator"`
	TruckBeingLoaded string     `json:"truckBeingLoaded,omitempty"`
	MiningFront      string     `json:"miningFront,omitempty"`
	Destination      string     `json:"destination,omitempty"`
	ActivityDetails  string     `json:"activityDetails,omitempty"`
	Distance         float64    `json:"distance,omitempty"`
	StartTime        time.Time  `json:"startTime"`
	EndTime          *time.Time `json:"endTime,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`
}

// Active сообщает, идет ли операция до сих пор (нет времени окончания).
func (o Operation) Active() bool {
	return o.EndTime == nil
}

type StartRequest struct {
	Equipment        string     `json:"equipment"`
	Activity         string     `json:"activity"`
	Material         string     `json:"material,omitempty"`
	TruckBeingLoaded string     `json:"truckBeingLoaded,omitempty"`
	MiningFront      string     `json:"miningFront,omitempty"`
	Destination      string     `json:"destination,omitempty"`
	ActivityDetails  string     `json:"activityDetails,omitempty"`
	StartTime        *time.Time `json:"startTime,omitempty"`
}

type StopRequest struct {
	Distance float64    `json:"distance"`
	EndTime  *time.Time `json:"endTime,omitempty"`
}
