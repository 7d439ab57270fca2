package memory

import (
	"testing"

	"mentorbook/internal/infrastructure/storetest"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Harness {
		s := NewStore()
		return storetest.Harness{
			UnitOfWork: s,
			Calendars:  s.Calendars(),
			Meetings:   s.Meetings(),
			People:     s.People(),
		}
	})
}
