package models

import "time"

// TimeStampLayout — формат time_stamp в ответах (как DATETIME в MySQL).
const TimeStampLayout = "2006-01-02 15:04:05"

// Connection — запись реестра rc_connection.
// Записи не удаляются, только деактивируются (available=0).
type Connection struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255" json:"name"`
	IP            IPv4      `gorm:"column:ip;not null;default:0" json:"ip"`
	Port          int       `gorm:"column:port;not null;default:0" json:"port"`
	SSID          string    `gorm:"column:ssid;size:255" json:"ssid"`
	Available     int       `gorm:"column:available;not null;default:0;index" json:"available"`
	UniqueAuthKey *string   `gorm:"column:unique_auth_key;size:64;uniqueIndex" json:"-"`
	TimeStamp     time.Time `gorm:"column:time_stamp" json:"time_stamp"`
}

func (Connection) TableName() string { return "rc_connection" }

// AvailableConnection — элемент ответа get_available.
type AvailableConnection struct {
	IP        string `json:"ip"`
	Port      int    `json:"port"`
	SSID      string `json:"ssid"`
	Available int    `json:"available"`
	TimeStamp string `json:"time_stamp"`
}

func (c Connection) AsAvailable() AvailableConnection {
	return AvailableConnection{
		IP:        c.IP.String(),
		Port:      c.Port,
		SSID:      c.SSID,
		Available: c.Available,
		TimeStamp: c.TimeStamp.UTC().Format(TimeStampLayout),
	}
}

// UpdateFields — полная перезапись полей записи (update).
// Name == nil — «старый» вариант без name, поле не трогаем.
type UpdateFields struct {
	ID        uint
	Name      *string
	IP        IPv4
	Port      int
	SSID      string
	Available int
}
