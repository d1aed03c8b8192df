package stations

import "courier-slot-service/internal/domain"

type builtinStation struct {
	name     string
	lat, lon float64
	lines    []string
}

var builtinStations = []builtinStation{
	{"Observatorio", 19.3986, -99.2003, []string{"1"}},
	{"Tacubaya", 19.4036, -99.1874, []string{"1", "7", "9"}},
	{"Chapultepec", 19.4207, -99.1765, []string{"1"}},
	{"Sevilla", 19.4219, -99.1706, []string{"1"}},
	{"Insurgentes", 19.4234, -99.1632, []string{"1"}},
	{"Cuauhtémoc", 19.4257, -99.1547, []string{"1"}},
	{"Balderas", 19.4274, -99.1490, []string{"1", "3"}},
	{"Salto del Agua", 19.4270, -99.1423, []string{"1", "8"}},
	{"Isabel la Católica", 19.4264, -99.1376, []string{"1"}},
	{"Pino Suárez", 19.4254, -99.1330, []string{"1", "2"}},
	{"Merced", 19.4256, -99.1247, []string{"1"}},
	{"Candelaria", 19.4287, -99.1197, []string{"1", "4"}},
	{"San Lázaro", 19.4302, -99.1148, []string{"1", "B"}},
	{"Balbuena", 19.4230, -99.1027, []string{"1"}},
	{"Gómez Farías", 19.4165, -99.0904, []string{"1"}},
	{"Zaragoza", 19.4124, -99.0823, []string{"1"}},
	{"Pantitlán", 19.4153, -99.0724, []string{"1", "5", "9", "A"}},
	{"Zócalo / Tenochtitlan", 19.4326, -99.1322, []string{"2"}},
	{"Bellas Artes", 19.4363, -99.1415, []string{"2", "8"}},
	{"Hidalgo", 19.4372, -99.1471, []string{"2", "3"}},
	{"Chabacano", 19.4087, -99.1356, []string{"2", "8", "9"}},
	{"Tasqueña", 19.3440, -99.1425, []string{"2"}},
	{"Cuatro Caminos", 19.4596, -99.2156, []string{"2"}},
	{"Guerrero", 19.4445, -99.1453, []string{"3", "B"}},
	{"La Raza", 19.4697, -99.1365, []string{"3", "5"}},
	{"Indios Verdes", 19.4955, -99.1196, []string{"3"}},
	{"Centro Médico", 19.4066, -99.1553, []string{"3", "9"}},
	{"Universidad", 19.3244, -99.1740, []string{"3"}},
	{"Deportivo 18 de Marzo", 19.4837, -99.1264, []string{"3", "6"}},
	{"Martín Carrera", 19.4851, -99.1044, []string{"4", "6"}},
	{"Terminal Aérea", 19.4336, -99.0877, []string{"5"}},
	{"Politécnico", 19.5006, -99.1492, []string{"5"}},
	{"Mixcoac", 19.3760, -99.1877, []string{"7", "12"}},
	{"Chilpancingo", 19.4059, -99.1686, []string{"9"}},
	{"Garibaldi / Lagunilla", 19.4438, -99.1394, []string{"8", "B"}},
	{"Constitución de 1917", 19.3458, -99.0636, []string{"8"}},
	{"Tláhuac", 19.2863, -99.0143, []string{"12"}},
	{"Ciudad Azteca", 19.5344, -99.0275, []string{"B"}},
}

// Builtin returns the fallback station set used when no dataset is available.
func Builtin() []domain.Station {
	out := make([]domain.Station, 0, len(builtinStations))
	for _, s := range builtinStations {
		out = append(out, domain.Station{
			Name:   s.name,
			Coords: domain.Coordinates{Lon: s.lon, Lat: s.lat},
			Lines:  append([]string(nil), s.lines...),
		})
	}
	return out
}
