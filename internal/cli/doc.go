// Package cli содержит cobra-команды бинарников dispatcher и dispatcher-cli.
//
// # Ключевые компоненты
//
// ## NewServeCmd
//
// Корневая команда сервиса. Собирает config.Config из файла, окружения
// и флагов и передаёт его в ServeFunc.
//
//	dispatcher --host rabbit --queue update_queue -- python3 test_cnx.py
//
// ## Client и NewSendCmd
//
// Публикация сообщения в очередь для ручной проверки работающего сервиса:
//
//	dispatcher-cli --queue update_queue send --declare "update available"
//
// ## Output
//
// Результат команды выводится в stdout парами "ИМЯ значение"
// (text/tabwriter) или JSON (--json). Сообщения оператору идут в stderr.
package cli
